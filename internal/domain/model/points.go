package model

import "strings"

// MergedPlayerStat is one player's combined figures for one match.
type MergedPlayerStat struct {
	MatchID  string
	PlayerID string
	Name     string
	Team     string

	HasBatting bool
	Runs       int
	Balls      int
	Fours      int
	Sixes      int

	HasBowling   bool
	Overs        float64
	Maidens      int
	RunsConceded int
	Wickets      int
	NoBalls      int
	Wides        int
	DotBalls     int

	Catches   int
	Stumpings int
	RunOuts   int
}

// PlayerPoints is the fantasy score for one player in one match.
type PlayerPoints struct {
	MatchID  string
	PlayerID string
	Player   string
	Team     string
	Batting  int
	Bowling  int
	Fielding int
	POTM     int
}

// Total sums all point components.
func (p PlayerPoints) Total() int {
	return p.Batting + p.Bowling + p.Fielding + p.POTM
}

// IsSentinelName reports scorecard labels that must never become players.
func IsSentinelName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "extras", "total", "did not bat":
		return true
	}
	return false
}
