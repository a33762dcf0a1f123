// Package termgath prints run events to a terminal.
package termgath

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/runner"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// TerminalGatherer writes one line per finished test. Tests of concurrent
// suites may interleave; each line names its suite.
type TerminalGatherer struct {
	StartedAt time.Time
	// Verbose also prints decoded logs of passing tests
	Verbose bool

	mu  sync.Mutex
	out io.Writer
}

func New() *TerminalGatherer { return NewWithWriter(os.Stdout) }

func NewWithWriter(w io.Writer) *TerminalGatherer {
	return &TerminalGatherer{StartedAt: time.Now(), out: w}
}

// Factory returns a gatherer factory that prints every run to w
func Factory(w io.Writer, verbose bool) runner.GathererFactory {
	return func(string) runner.Gatherer {
		g := NewWithWriter(w)
		g.Verbose = verbose
		return g
	}
}

func (t *TerminalGatherer) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *TerminalGatherer) StartRun(root string) {
	t.StartedAt = time.Now()
	t.printf("== Run started in %s ==\n", root)
}

func (t *TerminalGatherer) StartSuite(suite string, testCount int) {
	t.printf("-- Ran %d tests for %s --\n", testCount, suite)
}

func (t *TerminalGatherer) FinishTest(suite string, test string, res *api.TestResult) {
	var sb strings.Builder
	label := passColor.Sprint("[PASS]")
	if res.Status != api.Success {
		label = failColor.Sprint("[FAIL]")
	}
	fmt.Fprintf(&sb, "%s %s::%s %s", label, suite, test, dimColor.Sprintf("(%s)", res.Duration.Round(time.Microsecond)))
	if res.Reason != nil && res.Status != api.Success {
		fmt.Fprintf(&sb, "\n  reason: %s", *res.Reason)
	}
	if res.Status != api.Success || t.Verbose {
		for _, line := range res.DecodedLogs {
			fmt.Fprintf(&sb, "\n  %s", line)
		}
	}
	t.printf("%s\n", sb.String())
}

func (t *TerminalGatherer) FinishSuite(suite string, res *api.SuiteResult) {
	msg := api.NewFinishSuite("", suite, res)
	for _, w := range res.Warnings {
		t.printf("%s\n", warnColor.Sprintf("Warning (%s): %s", suite, w))
	}
	t.printf("-- %s: %d passed; %d failed (%s) --\n", suite, msg.Passed, msg.Failed, res.Duration.Round(time.Microsecond))
}

func (t *TerminalGatherer) FinishRun(errIfAny error) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	if errIfAny != nil {
		t.printf("== Run aborted after %s: %v ==\n", dur, errIfAny)
		return
	}
	t.printf("== Run finished in %s ==\n", dur)
}
