// Package rterrors defines the sentinel errors shared across the
// module's packages, wrapped with errors.Is/errors.As support via
// fmt.Errorf's %w verb at each call site.
package rterrors

import "errors"

var (
	// ErrConfigInvalid reports a build/crack configuration that fails
	// validation before any work starts (bad min/max, empty charset,
	// zero thread count, and similar).
	ErrConfigInvalid = errors.New("rainbow: invalid configuration")

	// ErrTableCorrupt reports a table file whose header or row data
	// doesn't match the format it claims to be.
	ErrTableCorrupt = errors.New("rainbow: table corrupt")

	// ErrIoFailure wraps an underlying OS-level I/O error encountered
	// while reading or writing a table file.
	ErrIoFailure = errors.New("rainbow: i/o failure")

	// ErrInvalidTarget reports a crack target that isn't a valid hex
	// digest for the table's algorithm.
	ErrInvalidTarget = errors.New("rainbow: invalid target")
)
