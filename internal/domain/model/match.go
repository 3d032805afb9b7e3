// Package model contains domain models passed between pipeline stages.
package model

import (
	"strings"
	"time"
)

// Match is one fixture taken from a tournament listing page.
type Match struct {
	ID           string    // upstream match identifier, taken from the detail link
	TeamA        string    // first team in "TeamA vs TeamB"
	TeamB        string    // second team, empty when the title has no separator
	StartsAt     time.Time // scheduled start; listing time when the page has none
	Venue        string
	Result       string // completion text, empty for fixtures still to be played
	ScorecardURL string
}

// Completed reports whether the listing carried a final result.
func (m Match) Completed() bool {
	r := strings.TrimSpace(m.Result)
	return r != "" && !strings.EqualFold(r, "Result Pending")
}

// Title renders "TeamA vs TeamB".
func (m Match) Title() string {
	if m.TeamB == "" {
		return m.TeamA
	}
	return m.TeamA + " vs " + m.TeamB
}

// Award names the player of the match. Either field may be empty.
type Award struct {
	MatchID  string
	PlayerID string
	Name     string
}

// Empty reports whether no award was found.
func (a Award) Empty() bool { return a.PlayerID == "" && a.Name == "" }
