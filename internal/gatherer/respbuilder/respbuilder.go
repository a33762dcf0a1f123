// Package respbuilder gathers run events into an api.RunReport.
package respbuilder

import (
	"sort"
	"sync"
	"time"

	"github.com/programme-lv/zktester/api"
)

// Builder gathers run events and builds a complete api.RunReport.
// It is safe for concurrent FinishTest calls.
type Builder struct {
	mu sync.Mutex

	runUuid string
	root    string

	started  time.Time
	finished *time.Time

	suites map[string]*api.SuiteSummary

	errorMessage *string
}

func New(runUuid string) *Builder {
	return &Builder{
		runUuid: runUuid,
		started: time.Now(),
		suites:  make(map[string]*api.SuiteSummary),
	}
}

func (b *Builder) suite(name string) *api.SuiteSummary {
	s, ok := b.suites[name]
	if !ok {
		s = &api.SuiteSummary{Suite: name}
		b.suites[name] = s
	}
	return s
}

func (b *Builder) StartRun(root string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = root
	b.started = time.Now()
}

func (b *Builder) StartSuite(suite string, testCount int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suite(suite).Tests = make([]api.TestSummary, 0, testCount)
}

func (b *Builder) FinishTest(suite string, test string, res *api.TestResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.suite(suite)
	ts := api.TestSummary{
		Test:       test,
		Status:     res.Status,
		DurationMs: res.Duration.Milliseconds(),
	}
	if res.Reason != nil {
		r := *res.Reason
		ts.Reason = &r
	}
	s.Tests = append(s.Tests, ts)
	if res.Status == api.Success {
		s.Passed++
	} else {
		s.Failed++
	}
}

func (b *Builder) FinishSuite(suite string, res *api.SuiteResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suite(suite).Warnings = append([]string(nil), res.Warnings...)
}

func (b *Builder) FinishRun(errIfAny error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.finished = &now
	if errIfAny != nil {
		msg := errIfAny.Error()
		b.errorMessage = &msg
	}
}

// Response builds the api.RunReport from gathered data
func (b *Builder) Response() api.RunReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}

	names := make([]string, 0, len(b.suites))
	for name := range b.suites {
		names = append(names, name)
	}
	sort.Strings(names)

	status := api.RunPassed
	suites := make([]api.SuiteSummary, 0, len(names))
	for _, name := range names {
		s := *b.suites[name]
		s.Tests = append([]api.TestSummary(nil), s.Tests...)
		sort.Slice(s.Tests, func(i, j int) bool { return s.Tests[i].Test < s.Tests[j].Test })
		if s.Failed > 0 {
			status = api.RunFailed
		}
		suites = append(suites, s)
	}

	var errMsg *string
	if b.errorMessage != nil {
		v := *b.errorMessage
		errMsg = &v
		status = api.RunAborted
	}

	return api.RunReport{
		RunUuid:      b.runUuid,
		Root:         b.root,
		Status:       status,
		Suites:       suites,
		ErrorMessage: errMsg,
		StartTime:    start,
		FinishTime:   finish,
		TotalTimeMs:  total,
	}
}
