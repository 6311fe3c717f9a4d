package utils

import "errors"

// ErrPerfUnavailable is reported when hardware counters cannot be read on
// this platform.
var ErrPerfUnavailable = errors.New("perf: hardware counters unavailable")

// PerfCount is the outcome of a counted call. Err is set when the counter
// could not be used; the call itself still ran.
type PerfCount struct {
	Instructions uint64
	Err          error
}
