package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no snapshot has been written yet
	ErrNotFound = errors.New("snapshot not found")

	// ErrMalformed indicates the snapshot is not a well-formed ordered list of samples
	ErrMalformed = errors.New("snapshot malformed")

	// ErrWindowWarming indicates the snapshot holds fewer than N samples.
	// It wraps ErrMalformed: a warming window is not usable for forecasting.
	ErrWindowWarming = fmt.Errorf("%w: window not full", ErrMalformed)

	// ErrSourceUnavailable indicates the telemetry source could not be read
	ErrSourceUnavailable = errors.New("telemetry source unavailable")
)

// IsTransient reports whether err is an expected skip-the-tick condition
// rather than a failure worth an error-level log.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrWindowWarming)
}
