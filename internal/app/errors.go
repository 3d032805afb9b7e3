package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	// ErrListMatches aborts a run: without the listing there is nothing to do.
	ErrListMatches = errors.New("service: list matches")
	// ErrEmptyScorecard marks a match whose scorecard parsed to nothing,
	// usually a markup change or an abandoned game. The match is skipped.
	ErrEmptyScorecard = errors.New("service: empty scorecard")
)
