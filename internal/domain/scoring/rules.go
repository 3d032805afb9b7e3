package scoring

import "math"

// Band awards Points to any value strictly below Below. Bands are checked in
// order, so they must be sorted by Below ascending.
type Band struct {
	Below  float64
	Points int
}

// Rules is the fantasy point table. It is built once at startup and never
// mutated afterwards.
type Rules struct {
	Run            int
	Four           int
	Six            int
	MilestoneRuns  int
	MilestoneBonus int

	StrikeRateMinBalls int
	StrikeRateBands    []Band

	Wicket      int
	WicketBonus int
	Maiden      int
	DotBall     int

	EconomyMinOvers float64
	EconomyBands    []Band

	WidesPerPenalty int
	NoBallPenalty   int

	Catch    int
	Stumping int
	RunOut   int

	POTM int
}

// DefaultRules returns the standard point table.
func DefaultRules() Rules {
	return Rules{
		Run:            1,
		Four:           1,
		Six:            2,
		MilestoneRuns:  25,
		MilestoneBonus: 10,

		StrikeRateMinBalls: 10,
		StrikeRateBands: []Band{
			{Below: 50, Points: -15},
			{Below: 75, Points: -10},
			{Below: 100, Points: -5},
			{Below: 125, Points: 0},
			{Below: 150, Points: 5},
			{Below: 200, Points: 10},
			{Below: math.Inf(1), Points: 15},
		},

		Wicket:      20,
		WicketBonus: 10,
		Maiden:      20,
		DotBall:     2,

		EconomyMinOvers: 1,
		EconomyBands: []Band{
			{Below: 5.01, Points: 20},
			{Below: 6.01, Points: 15},
			{Below: 7.01, Points: 10},
			{Below: 8.01, Points: 5},
			{Below: 9.01, Points: 0},
			{Below: 10.01, Points: -5},
			{Below: 12.01, Points: -10},
			{Below: math.Inf(1), Points: -20},
		},

		WidesPerPenalty: 2,
		NoBallPenalty:   2,

		Catch:    10,
		Stumping: 10,
		RunOut:   10,

		POTM: 50,
	}
}

func bandPoints(bands []Band, v float64) int {
	for _, b := range bands {
		if v < b.Below {
			return b.Points
		}
	}
	return 0
}
