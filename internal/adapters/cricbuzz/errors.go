package cricbuzz

import "errors"

// Sentinel error kinds for this package.
var (
	ErrParse   = errors.New("cricbuzz: markup could not be parsed")
	ErrNoMatch = errors.New("cricbuzz: listing entry has no match link")
)
