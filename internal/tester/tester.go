// Package tester runs filtered suites and checks every outcome against a
// uniform should-fail policy.
package tester

import (
	"context"
	"strings"

	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/programme-lv/zktester/internal/console"
	"github.com/programme-lv/zktester/internal/runner"
	"github.com/programme-lv/zktester/internal/traces"
	"golang.org/x/sync/errgroup"
)

// ConsoleLogDecoder turns raw log records into human readable console lines
type ConsoleLogDecoder interface {
	DecodeConsoleLogs(logs []api.Log) []string
}

// TraceRenderer renders a call-trace arena to text
type TraceRenderer interface {
	RenderTrace(ctx context.Context, arena *api.CallTraceArena) (string, error)
}

// Verifier checks results against the should-fail policy and builds the
// diagnostic for the first violation
type Verifier struct {
	Decoder  ConsoleLogDecoder
	Renderer TraceRenderer
}

// TestConfig pairs a runner with a filter, options and an expected outcome
type TestConfig struct {
	Verifier

	Runner     *runner.Runner
	ShouldFail bool
	Filter     runner.Filter
	Opts       config.TestOptions
}

// New selects every test of r with the runner's options
func New(r *runner.Runner) *TestConfig {
	return WithFilter(r, runner.MatchAll())
}

// WithFilter selects the tests of r matched by filter
func WithFilter(r *runner.Runner, filter runner.Filter) *TestConfig {
	return &TestConfig{
		Verifier: Verifier{
			Decoder:  console.Decoder{},
			Renderer: traces.PlainRenderer{},
		},
		Runner: r,
		Filter: filter,
		Opts:   r.Options,
	}
}

// ShouldFailed returns a copy that expects every selected test to fail
func (c *TestConfig) ShouldFailed() *TestConfig {
	cp := *c
	cp.ShouldFail = true
	return &cp
}

// Test runs the selected tests without checking outcomes
func (c *TestConfig) Test(ctx context.Context) api.SuiteResultMap {
	return c.Runner.Run(ctx, c.Filter, c.Opts)
}

// Run executes the tests and verifies the outcomes
func (c *TestConfig) Run(ctx context.Context) error {
	return c.Verify(ctx, c.Test(ctx), c.ShouldFail)
}

// Verify walks suites and tests in name order and fails on the first test
// whose status contradicts shouldFail.
func (v Verifier) Verify(ctx context.Context, results api.SuiteResultMap, shouldFail bool) error {
	if results.TestCount() == 0 {
		return ErrFilterMatchedNothing
	}
	for _, suite := range results.SuiteNames() {
		sr := results[suite]
		for _, test := range sr.TestNames() {
			res := sr.TestResults[test]
			if (res.Status == api.Success) != shouldFail {
				continue
			}
			return v.diagnose(ctx, suite, test, res, shouldFail)
		}
	}
	return nil
}

func (v Verifier) diagnose(ctx context.Context, suite, test string, res api.TestResult, shouldFail bool) error {
	logs := res.DecodedLogs
	if v.Decoder != nil && len(res.Logs) > 0 {
		logs = v.Decoder.DecodeConsoleLogs(res.Logs)
	}

	rendered, err := v.renderTraces(ctx, suite, test, res.Traces)
	if err != nil {
		return err
	}

	expected := "pass"
	if shouldFail {
		expected = "fail"
	}
	return &OutcomeMismatchError{
		Suite:    suite,
		Test:     test,
		Expected: expected,
		Reason:   res.Reason,
		Logs:     strings.Join(logs, "\n"),
		Traces:   strings.Join(rendered, "\n"),
	}
}

// renderTraces renders every arena concurrently and keeps the original order
func (v Verifier) renderTraces(ctx context.Context, suite, test string, arenas []api.CallTraceArena) ([]string, error) {
	renderer := v.Renderer
	if renderer == nil {
		renderer = traces.PlainRenderer{}
	}
	out := make([]string, len(arenas))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range arenas {
		eg.Go(func() error {
			s, err := renderer.RenderTrace(ctx, &arenas[i])
			if err != nil {
				return &TraceRenderError{Suite: suite, Test: test, Index: i, Err: err}
			}
			out[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
