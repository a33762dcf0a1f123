package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// Runner executes the test functions of an artifact set.
// A runner may be used for any number of runs, also concurrently.
type Runner struct {
	Root    string
	Sender  common.Address
	Env     *Environment
	Fork    *Fork
	Options config.TestOptions
	Cheats  CheatsConfig

	artifacts   *artifacts.Set
	executor    Executor
	gatherers   GathererFactory
	logger      *slog.Logger
	parallelism int
}

type suitePlan struct {
	name     string
	artifact *artifacts.Artifact
	tests    []string
	warnings []string
}

// Artifacts returns the artifact set the runner was built from
func (r *Runner) Artifacts() *artifacts.Set {
	return r.artifacts
}

// Run executes every test function selected by filter and returns the
// results keyed by suite and test name. Executor errors are reported as
// failed tests with the error as reason.
func (r *Runner) Run(ctx context.Context, filter Filter, opts config.TestOptions) api.SuiteResultMap {
	runUuid := uuid.NewString()
	logger := r.logger.With("run", runUuid)
	gath := r.gatherers(runUuid)
	gath.StartRun(r.Root)

	plans := r.plan(filter)
	logger.Debug("selected suites", "suites", len(plans))

	collected := make(map[string]*xsync.MapOf[string, api.TestResult], len(plans))
	for _, p := range plans {
		collected[p.name] = xsync.NewMapOf[string, api.TestResult]()
	}

	eg := errgroup.Group{}
	eg.SetLimit(r.parallelism)
	for _, p := range plans {
		gath.StartSuite(p.name, len(p.tests))
		for _, test := range p.tests {
			eg.Go(func() error {
				res := r.execute(ctx, p, test, opts)
				collected[p.name].Store(test, res)
				gath.FinishTest(p.name, test, &res)
				return nil
			})
		}
	}
	_ = eg.Wait()

	results := make(api.SuiteResultMap, len(plans))
	for _, p := range plans {
		sr := api.SuiteResult{
			TestResults: make(map[string]api.TestResult, len(p.tests)),
			Warnings:    p.warnings,
		}
		collected[p.name].Range(func(test string, res api.TestResult) bool {
			sr.TestResults[test] = res
			sr.Duration += res.Duration
			return true
		})
		results[p.name] = sr
		gath.FinishSuite(p.name, &sr)
	}

	gath.FinishRun(ctx.Err())
	logger.Info("finished run", "suites", len(results), "tests", results.TestCount())
	return results
}

func (r *Runner) execute(ctx context.Context, p suitePlan, test string, opts config.TestOptions) api.TestResult {
	start := time.Now()
	res, err := r.executor.ExecuteTest(ctx, TestRequest{
		Suite:    p.name,
		Test:     test,
		Artifact: p.artifact,
		Sender:   r.Sender,
		Env:      r.Env,
		Options:  opts,
		Cheats:   &r.Cheats,
	})
	if err != nil {
		r.logger.Debug("test execution failed", "suite", p.name, "test", test, "error", err)
		reason := err.Error()
		res = &api.TestResult{Status: api.Failure, Reason: &reason}
	}
	if res == nil {
		reason := "executor returned no result"
		res = &api.TestResult{Status: api.Failure, Reason: &reason}
	}
	out := *res
	if out.Duration == 0 {
		out.Duration = time.Since(start)
	}
	return out
}

// plan selects the suites and tests matching filter, sorted by name
func (r *Runner) plan(filter Filter) []suitePlan {
	plans := make([]suitePlan, 0)
	r.artifacts.Each(func(a *artifacts.Artifact) {
		if !filter.MatchesContract(a.Name) || !filter.MatchesPath(a.SourcePath) {
			return
		}
		tests := make([]string, 0)
		for _, fn := range a.TestFunctions() {
			if filter.MatchesTest(fn) {
				tests = append(tests, fn)
			}
		}
		if len(tests) == 0 {
			return
		}
		sort.Strings(tests)
		plans = append(plans, suitePlan{
			name:     a.Name,
			artifact: a,
			tests:    tests,
			warnings: suiteWarnings(a),
		})
	})
	return plans
}

func suiteWarnings(a *artifacts.Artifact) []string {
	warnings := make([]string, 0)
	deprecated := make([]string, 0)
	for _, fn := range a.Functions {
		if strings.HasPrefix(fn, "testFail") {
			deprecated = append(deprecated, fn)
		}
		if fn != "setUp" && strings.EqualFold(fn, "setUp") {
			warnings = append(warnings, fmt.Sprintf("Found invalid setup function %q, did you mean \"setUp()\"?", fn))
		}
	}
	if len(deprecated) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"testFail* has been deprecated, use vm.expectRevert instead. Found: %s",
			strings.Join(deprecated, ", ")))
	}
	return warnings
}
