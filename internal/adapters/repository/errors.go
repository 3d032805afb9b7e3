package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrExport   = errors.New("repository: export points")
	ErrNotFound = errors.New("repository: not found")
	ErrClosed   = errors.New("repository: store closed")
)

func errMissing(field, row string) error {
	return fmt.Errorf("%w: row %q has no %s", ErrExport, row, field)
}
