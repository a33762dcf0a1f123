package termgath_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/gatherer/termgath"
	"github.com/stretchr/testify/assert"
)

func TestTerminalGatherer(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	g := termgath.NewWithWriter(&buf)

	reason := "assertion failed"
	g.StartRun("/project")
	g.StartSuite("Counter", 2)
	g.FinishTest("Counter", "testIncrement", &api.TestResult{
		Status:      api.Success,
		DecodedLogs: []string{"hidden"},
		Duration:    2 * time.Millisecond,
	})
	g.FinishTest("Counter", "testDecrement", &api.TestResult{
		Status:      api.Failure,
		Reason:      &reason,
		DecodedLogs: []string{"x=1"},
		Duration:    time.Millisecond,
	})
	g.FinishSuite("Counter", &api.SuiteResult{
		TestResults: map[string]api.TestResult{
			"testIncrement": {Status: api.Success},
			"testDecrement": {Status: api.Failure},
		},
		Warnings: []string{"testFail* has been deprecated"},
		Duration: 3 * time.Millisecond,
	})
	g.FinishRun(errors.New("interrupted"))

	out := buf.String()
	assert.Contains(t, out, "== Run started in /project ==")
	assert.Contains(t, out, "-- Ran 2 tests for Counter --")
	assert.Contains(t, out, "[PASS] Counter::testIncrement (2ms)")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[FAIL] Counter::testDecrement (1ms)\n  reason: assertion failed\n  x=1\n")
	assert.Contains(t, out, "Warning (Counter): testFail* has been deprecated")
	assert.Contains(t, out, "-- Counter: 1 passed; 1 failed (3ms) --")
	assert.Contains(t, out, "interrupted")
}
