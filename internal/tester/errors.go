package tester

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrFilterMatchedNothing is returned when a run produced no results at all
var ErrFilterMatchedNothing = errors.New("empty test result: filter matched no tests")

// OutcomeMismatchError reports the first test whose outcome contradicts the
// should-fail policy. Logs and Traces are already rendered.
type OutcomeMismatchError struct {
	Suite    string
	Test     string
	Expected string
	Reason   *string
	Logs     string
	Traces   string
}

func (e *OutcomeMismatchError) Error() string {
	return fmt.Sprintf("Test %s did not %s as expected.\nReason: %s\nLogs:\n%s\n\nTraces:\n%s",
		e.Test, e.Expected, formatReason(e.Reason), e.Logs, e.Traces)
}

// TraceRenderError is returned when rendering one of the traces of a
// mismatching test fails
type TraceRenderError struct {
	Suite string
	Test  string
	Index int
	Err   error
}

func (e *TraceRenderError) Error() string {
	return fmt.Sprintf("failed to render trace %d of %s::%s: %v", e.Index, e.Suite, e.Test, e.Err)
}

func (e *TraceRenderError) Unwrap() error {
	return e.Err
}

func formatReason(r *string) string {
	if r == nil {
		return "none"
	}
	return strconv.Quote(*r)
}
