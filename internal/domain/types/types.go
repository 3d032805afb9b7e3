// Package types contains common types used across the application
package types

// Entry is one line of a standings table.
type Entry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id,omitempty"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	Matches  int    `json:"matches"`
	Batting  int    `json:"batting"`
	Bowling  int    `json:"bowling"`
	Fielding int    `json:"fielding"`
	POTM     int    `json:"potm"`
	Total    int    `json:"total"`
}
