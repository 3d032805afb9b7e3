package fetch

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrFetchExhausted = errors.New("fetch retries exhausted")
	ErrStatus         = errors.New("unexpected http status")
	ErrEmptyBody      = errors.New("empty response body")
)

// ExhaustedError is returned once every attempt for a URL has failed.
// It matches ErrFetchExhausted and unwraps to the last attempt's error.
type ExhaustedError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetchExhausted.
func (e *ExhaustedError) Is(target error) bool { return target == ErrFetchExhausted }
