//go:build linux
// +build linux

package utils

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// CountInstructions runs f and counts the CPU instructions retired by the
// calling thread while it ran. Work f hands to other goroutines is not
// counted. If the counter cannot be opened, f is run uncounted.
func CountInstructions(f func() error) (pc PerfCount, err error) {
	var (
		called bool
		fErr   error
	)
	pv, perr := perf.CPUInstructions(func() error {
		called = true
		fErr = f()
		return fErr
	})
	if !called {
		fErr = f()
	}
	if err = fErr; err != nil {
		return
	}
	if perr != nil {
		pc.Err = fmt.Errorf("%w: %v", ErrPerfUnavailable, perr)
		return
	}
	pc.Instructions = pv.Value
	return
}
