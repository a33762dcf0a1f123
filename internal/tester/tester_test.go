package tester_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/programme-lv/zktester/internal/console"
	"github.com/programme-lv/zktester/internal/runner"
	"github.com/programme-lv/zktester/internal/tester"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decoderFunc func(logs []api.Log) []string

func (f decoderFunc) DecodeConsoleLogs(logs []api.Log) []string { return f(logs) }

type rendererFunc func(ctx context.Context, arena *api.CallTraceArena) (string, error)

func (f rendererFunc) RenderTrace(ctx context.Context, arena *api.CallTraceArena) (string, error) {
	return f(ctx, arena)
}

func strPtr(s string) *string { return &s }

func kindRenderer() rendererFunc {
	return func(_ context.Context, arena *api.CallTraceArena) (string, error) {
		return "trace:" + string(arena.Kind), nil
	}
}

func fixedLogs(lines ...string) decoderFunc {
	return func([]api.Log) []string { return lines }
}

func success() api.TestResult { return api.TestResult{Status: api.Success} }

func failure(reason string) api.TestResult {
	return api.TestResult{
		Status: api.Failure,
		Reason: strPtr(reason),
		Traces: []api.CallTraceArena{
			{Kind: api.SetupTrace},
			{Kind: api.ExecutionTrace},
		},
	}
}

func TestVerify_Empty(t *testing.T) {
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: kindRenderer()}
	err := v.Verify(context.Background(), api.SuiteResultMap{}, false)
	require.ErrorIs(t, err, tester.ErrFilterMatchedNothing)

	// suites without tests count as empty too
	err = v.Verify(context.Background(), api.SuiteResultMap{"A": {}}, true)
	require.ErrorIs(t, err, tester.ErrFilterMatchedNothing)
}

func TestVerify_AllMatch(t *testing.T) {
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: kindRenderer()}
	passing := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": success(), "testB": success()}},
	}
	require.NoError(t, v.Verify(context.Background(), passing, false))

	failing := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": failure("x")}},
	}
	require.NoError(t, v.Verify(context.Background(), failing, true))
}

func TestVerify_ShouldFailButPassed(t *testing.T) {
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: kindRenderer()}
	results := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": failure("boom"), "testB": success()}},
	}
	err := v.Verify(context.Background(), results, true)

	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "A", mismatch.Suite)
	assert.Equal(t, "testB", mismatch.Test)
	assert.Equal(t, "fail", mismatch.Expected)
	assert.Nil(t, mismatch.Reason)
	assert.True(t, strings.HasPrefix(err.Error(), "Test testB did not fail as expected.\nReason: none\n"))
}

func TestVerify_FirstViolationInNameOrder(t *testing.T) {
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: kindRenderer()}
	results := api.SuiteResultMap{
		"B": {TestResults: map[string]api.TestResult{"testA": failure("in B")}},
		"A": {TestResults: map[string]api.TestResult{
			"testZ": failure("in A z"),
			"testC": failure("in A c"),
			"testA": success(),
		}},
	}
	err := v.Verify(context.Background(), results, false)

	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "A", mismatch.Suite)
	assert.Equal(t, "testC", mismatch.Test)
	assert.Equal(t, "in A c", *mismatch.Reason)
}

func TestVerify_Diagnostic(t *testing.T) {
	v := tester.Verifier{
		Decoder:  fixedLogs("x=1", "y=2"),
		Renderer: kindRenderer(),
	}
	res := failure("assertion failed: 1 != 2")
	res.Logs = []api.Log{{Data: []byte{0x01}}}
	results := api.SuiteResultMap{
		"Counter": {TestResults: map[string]api.TestResult{"testIncrement": res}},
	}
	err := v.Verify(context.Background(), results, false)
	require.Error(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "outcome_mismatch", []byte(err.Error()))
}

func TestVerify_DecodedLogsWithoutRawLogs(t *testing.T) {
	results, err := api.DecodeSuiteResultMap([]byte(`{"Counter":{"test_results":{"testInc":` +
		`{"status":"failure","reason":"boom","decoded_logs":["x=2","y=3"]}}}}`))
	require.NoError(t, err)

	v := tester.Verifier{Decoder: console.Decoder{}, Renderer: kindRenderer()}
	err = v.Verify(context.Background(), results, false)

	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "x=2\ny=3", mismatch.Logs)
	require.EqualError(t, err, "Test testInc did not pass as expected.\nReason: \"boom\"\nLogs:\nx=2\ny=3\n\nTraces:\n")
}

func TestVerify_TracesRenderedConcurrently(t *testing.T) {
	arenas := make([]api.CallTraceArena, 6)
	for i := range arenas {
		arenas[i] = api.CallTraceArena{Nodes: make([]api.CallTraceNode, i)}
	}

	// every render waits until all renders have started
	var started sync.WaitGroup
	started.Add(len(arenas))
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()
	renderer := rendererFunc(func(_ context.Context, arena *api.CallTraceArena) (string, error) {
		started.Done()
		select {
		case <-allStarted:
			return fmt.Sprintf("arena %d", len(arena.Nodes)), nil
		case <-time.After(5 * time.Second):
			return "", errors.New("renders did not run concurrently")
		}
	})

	v := tester.Verifier{Decoder: fixedLogs(), Renderer: renderer}
	err := v.Verify(context.Background(), api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": {Status: api.Failure, Traces: arenas}}},
	}, false)

	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "arena 0\narena 1\narena 2\narena 3\narena 4\narena 5", mismatch.Traces)
}

func TestVerify_TracesKeepOrder(t *testing.T) {
	arenas := make([]api.CallTraceArena, 8)
	for i := range arenas {
		arenas[i] = api.CallTraceArena{Nodes: make([]api.CallTraceNode, i)}
	}
	// later arenas finish first
	renderer := rendererFunc(func(_ context.Context, arena *api.CallTraceArena) (string, error) {
		time.Sleep(time.Duration(len(arenas)-len(arena.Nodes)) * time.Millisecond)
		return fmt.Sprintf("arena %d", len(arena.Nodes)), nil
	})
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: renderer}
	res := api.TestResult{Status: api.Failure, Traces: arenas}

	err := v.Verify(context.Background(), api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": res}},
	}, false)

	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	expected := make([]string, len(arenas))
	for i := range expected {
		expected[i] = fmt.Sprintf("arena %d", i)
	}
	assert.Equal(t, strings.Join(expected, "\n"), mismatch.Traces)
}

func TestVerify_RenderFailure(t *testing.T) {
	renderErr := errors.New("unknown opcode")
	renderer := rendererFunc(func(_ context.Context, arena *api.CallTraceArena) (string, error) {
		if arena.Kind == api.ExecutionTrace {
			return "", renderErr
		}
		return "ok", nil
	})
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: renderer}
	results := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": failure("boom")}},
	}
	err := v.Verify(context.Background(), results, false)

	var renderFailure *tester.TraceRenderError
	require.ErrorAs(t, err, &renderFailure)
	assert.Equal(t, 1, renderFailure.Index)
	assert.Equal(t, "testA", renderFailure.Test)
	require.ErrorIs(t, err, renderErr)

	var mismatch *tester.OutcomeMismatchError
	assert.False(t, errors.As(err, &mismatch))
}

func TestVerify_NoTracesNoLogs(t *testing.T) {
	v := tester.Verifier{Decoder: fixedLogs(), Renderer: kindRenderer()}
	results := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": {Status: api.Failure}}},
	}
	err := v.Verify(context.Background(), results, false)
	require.EqualError(t, err, "Test testA did not pass as expected.\nReason: none\nLogs:\n\n\nTraces:\n")
}

func counterRunner(t *testing.T, exec runner.ExecutorFunc) *runner.Runner {
	t.Helper()
	arts := artifacts.NewSet(map[string]artifacts.Artifact{
		"Counter": {
			SourcePath:       "Counter.t.sol",
			DeployedBytecode: []byte{0x60},
			Functions:        []string{"setUp", "testIncrement", "testDecrement"},
		},
	})
	resolver := runner.EnvironmentResolverFunc(func(context.Context, config.EvmOpts) (*runner.Environment, error) {
		return &runner.Environment{ChainID: 31337}, nil
	})
	r, err := runner.Builder{Executor: exec, Parallelism: 2}.
		Build(context.Background(), "/project", arts, resolver, config.EvmOpts{})
	require.NoError(t, err)
	return r
}

func TestTestConfig_Run(t *testing.T) {
	r := counterRunner(t, func(_ context.Context, req runner.TestRequest) (*api.TestResult, error) {
		return &api.TestResult{Status: api.Success}, nil
	})

	cfg := tester.New(r)
	require.NoError(t, cfg.Run(context.Background()))

	failing := cfg.ShouldFailed()
	assert.False(t, cfg.ShouldFail)
	assert.True(t, failing.ShouldFail)

	err := failing.Run(context.Background())
	var mismatch *tester.OutcomeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "testDecrement", mismatch.Test)
}

func TestTestConfig_RunFilterMatchesNothing(t *testing.T) {
	r := counterRunner(t, func(context.Context, runner.TestRequest) (*api.TestResult, error) {
		t.Error("executor must not be called")
		return nil, nil
	})

	cfg := tester.WithFilter(r, runner.MustFilter("testNothing", "", ""))
	require.ErrorIs(t, cfg.Run(context.Background()), tester.ErrFilterMatchedNothing)
}

func TestTestConfig_TestKeepsArtifacts(t *testing.T) {
	r := counterRunner(t, func(context.Context, runner.TestRequest) (*api.TestResult, error) {
		return &api.TestResult{Status: api.Failure}, nil
	})
	before := r.Artifacts().Names()

	res := tester.New(r).Test(context.Background())
	assert.Equal(t, 2, res.TestCount())
	assert.Equal(t, before, r.Artifacts().Names())
}
