package mapelites

import (
	"errors"
	"fmt"
)

// Sentinel errors, wrapped with context at each call site via fmt.Errorf("%w", ...).
var (
	// ErrConfiguration marks a parameters file that is missing, malformed, or
	// out of its valid domain.
	ErrConfiguration = errors.New("mapelites: configuration error")

	// ErrProgramming marks a violated precondition: a behavior-length
	// mismatch at placement, or a query against an empty archive. It
	// indicates a bug in the caller rather than a recoverable runtime
	// condition.
	ErrProgramming = errors.New("mapelites: programming error")

	// ErrEmptyArchive is returned by operations that require at least one
	// occupied cell (TopIndividual, GetRandomIndividual). It is itself a
	// case of ErrProgramming, so errors.Is(err, ErrProgramming) also catches
	// this condition.
	ErrEmptyArchive = fmt.Errorf("%w: mapelites: archive is empty", ErrProgramming)
)

// Logger is the small logging seam used throughout this package: plain,
// printf-style status and warning lines, in the style of fmt.Printf/log.Printf
// call sites elsewhere in this codebase, but injectable so tests can assert
// on warnings without capturing stdout.
type Logger interface {
	Printf(format string, args ...any)
	Warnf(format string, args ...any)
}
