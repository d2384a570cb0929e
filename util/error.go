// util/error.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pushback-utility/pbutil/log"
)

// ErrorLogger is a small utility class used to accumulate problems found
// while decoding scenery. It tracks context about what is currently being
// decoded (e.g. section / subsection / airport) so that each message
// records where it came from, making it possible to report problems while
// still continuing decoding.
type ErrorLogger struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	// Actual error messages to report.
	errors []string
	// The underlying errors, kept so callers can errors.Is against them.
	errs []error
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) prefix() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return strings.Join(e.hierarchy, " / ") + ": "
}

func (e *ErrorLogger) ErrorString(s string, args ...interface{}) {
	err := fmt.Errorf(s, args...)
	e.errors = append(e.errors, e.prefix()+err.Error())
	e.errs = append(e.errs, err)
}

func (e *ErrorLogger) Error(err error) {
	e.errors = append(e.errors, e.prefix()+err.Error())
	e.errs = append(e.errs, err)
}

func (e *ErrorLogger) HaveErrors() bool {
	return e != nil && len(e.errors) > 0
}

// Errors returns the accumulated messages, each prefixed with the context
// that was current when it was recorded.
func (e *ErrorLogger) Errors() []string {
	if e == nil {
		return nil
	}
	return e.errors
}

// Contains reports whether any recorded error matches target under
// errors.Is.
func (e *ErrorLogger) Contains(target error) bool {
	if e == nil {
		return false
	}
	for _, err := range e.errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Err returns all of the recorded errors joined together, or nil if there
// are none.
func (e *ErrorLogger) Err() error {
	if e == nil {
		return nil
	}
	return errors.Join(e.errs...)
}

// LogWarnings reports each accumulated problem as a warning.
func (e *ErrorLogger) LogWarnings(lg *log.Logger) {
	for _, err := range e.Errors() {
		lg.Warnf("%s", err)
	}
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.errors, "\n")
}

// CheckDepth is intended to be deferred with the depth at entry; it
// panics if the Push/Pop calls in between were unbalanced.
func (e *ErrorLogger) CheckDepth(d int) {
	if e == nil || e.CurrentDepth() == d {
		return
	}

	if r := recover(); r == nil {
		// Don't give spurious warnings when there's a panic.
		var sb strings.Builder
		fmt.Fprintf(&sb, "Initial ErrorLogger depth %d, final %d\n", d, e.CurrentDepth())
		for _, f := range log.Callstack(nil) {
			fmt.Fprintf(&sb, "%15s:%d %s\n", f.File, f.Line, f.Function)
		}
		panic(sb.String())
	} else {
		panic(r)
	}
}

func (e *ErrorLogger) CurrentDepth() int {
	if e == nil {
		return 0
	}
	return len(e.hierarchy)
}
