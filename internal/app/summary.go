package service

import (
	"time"

	"github.com/okian/fantasy-cricket/internal/domain/model"
)

// MatchFailure is one match that could not be exported.
type MatchFailure struct {
	MatchID string
	Title   string
	Err     error
}

// Summary describes one run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Listed   int // fixtures on the listing page
	Selected int // fixtures picked for processing after filters and limit
	Exported int // matches fully exported and marked processed
	Rows     int // point rows written
	Skipped  int // incomplete, already processed, duplicate or empty matches

	Failed []MatchFailure
}

// OK reports whether every selected match was exported or skipped.
func (s *Summary) OK() bool { return len(s.Failed) == 0 }

func (s *Summary) fail(m model.Match, err error) {
	s.Failed = append(s.Failed, MatchFailure{MatchID: m.ID, Title: m.Title(), Err: err})
}
