package vm

import (
	"errors"

	"github.com/dustin/go-humanize"

	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
)

// ErrProgramTerminated is not an error: it is the sentinel run loops check
// for to recognize ordinary completion (reaching the end of the chunk, or
// executing a trailing `release`/`popip` that unwinds the last call frame).
// Grounded on spec.md §7's explicit callout that normal termination must
// not be conflated with a runtime error.
var ErrProgramTerminated = errors.New("program terminated")

// StackUnderflow reports an attempt to pop more bytes than the stack holds.
func StackUnderflow() error {
	return diagnostics.Runtime(diagnostics.ErrR001)
}

// StackOverflow reports an attempt to grow the stack past its configured
// capacity. The message includes both figures in human-readable form,
// adapted from the teacher's use of go-humanize in resource-limit errors.
func StackOverflow(requested, capacity int) error {
	return diagnostics.Runtime(diagnostics.ErrR002,
		humanizeBytes(requested)+" requested, "+humanizeBytes(capacity)+" available")
}

// DivisionByZero reports an integer or char div/mod by zero. Float div/mod
// by zero is explicitly not an error (spec.md §8: it produces inf/nan).
func DivisionByZero() error {
	return diagnostics.Runtime(diagnostics.ErrR003)
}

// SegmentationFault reports an out-of-range memory or jump address.
func SegmentationFault(detail string) error {
	return diagnostics.Runtime(diagnostics.ErrR004, detail)
}

func humanizeBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
