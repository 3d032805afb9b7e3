package model

// RowKind tags which part of an innings block a row came from.
type RowKind string

// Row kinds.
const (
	KindBatting  RowKind = "batting"
	KindBowling  RowKind = "bowling"
	KindDNB      RowKind = "dnb"
	KindFielding RowKind = "fielding"
)

// BattingRow is one batter's line in an innings.
type BattingRow struct {
	Innings    int
	Team       string
	PlayerID   string
	Name       string
	Dismissal  string
	Runs       int
	Balls      int
	Fours      int
	Sixes      int
	StrikeRate float64
}

// BowlingRow is one bowler's figures in an innings.
type BowlingRow struct {
	Innings      int
	Team         string
	PlayerID     string
	Name         string
	Overs        float64
	Maidens      int
	RunsConceded int
	Wickets      int
	NoBalls      int
	Wides        int
	Economy      float64
	DotBalls     int
}

// DnbRow is a squad member listed under "Did not Bat".
type DnbRow struct {
	Innings  int
	Team     string
	PlayerID string
	Name     string
}

// FieldingRow holds dismissal credits accumulated for one fielder in one innings.
type FieldingRow struct {
	Innings   int
	Team      string
	PlayerID  string
	Name      string
	Catches   int
	Stumpings int
	RunOuts   int
}

// Skipped records a row rejected at the parse boundary.
type Skipped struct {
	Innings int
	Kind    RowKind
	Reason  string
}

// Scorecard is the parsed form of one match's scorecard markup.
type Scorecard struct {
	MatchID  string
	Teams    []string
	Batting  []BattingRow
	Bowling  []BowlingRow
	Fielding []FieldingRow
	DNB      []DnbRow
	Skipped  []Skipped

	// Unresolved lists dismissal names that matched no known player and
	// were credited under their cleaned text.
	Unresolved []string
}

// Empty reports whether the parse produced no player rows at all.
func (s *Scorecard) Empty() bool {
	return len(s.Batting) == 0 && len(s.Bowling) == 0 && len(s.DNB) == 0
}

// Team returns the team name for a zero-based index, or "" when the
// header for it was not present.
func (s *Scorecard) Team(i int) string {
	if i < 0 || i >= len(s.Teams) {
		return ""
	}
	return s.Teams[i]
}
