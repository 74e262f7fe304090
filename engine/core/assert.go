package core

import (
	"fmt"
	"sync/atomic"
)

var debugChecks atomic.Bool

func init() {
	debugChecks.Store(true)
}

// AssertionError is the panic value raised by a failed Assert.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Message
}

// SetDebugChecks toggles the expensive consistency checks that re-query the
// driver. Plain assertions stay active either way.
func SetDebugChecks(enabled bool) {
	debugChecks.Store(enabled)
}

// DebugChecks reports whether driver cross-checks are enabled.
func DebugChecks() bool {
	return debugChecks.Load()
}

// Assert panics with an *AssertionError when cond is false. A failed
// assertion is a programming error, not a recoverable condition.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	LogError("assertion failed: %s", msg)
	panic(&AssertionError{Message: msg})
}
