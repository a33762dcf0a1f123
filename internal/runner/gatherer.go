package runner

//go:generate mockgen -source=gatherer.go -destination=mocks/mock_gatherer.go -package=mocks

import (
	"github.com/google/uuid"
	"github.com/programme-lv/zktester/api"
)

// Gatherer receives the events of a single run. FinishTest may be called
// concurrently for tests of different suites.
type Gatherer interface {
	StartRun(root string)
	StartSuite(suite string, testCount int)
	FinishTest(suite string, test string, res *api.TestResult)
	FinishSuite(suite string, res *api.SuiteResult)
	FinishRun(errIfAny error)
}

// GathererFactory creates the gatherer for a run identified by runUuid
type GathererFactory func(runUuid string) Gatherer

type nopGatherer struct{}

func (nopGatherer) StartRun(string)                            {}
func (nopGatherer) StartSuite(string, int)                     {}
func (nopGatherer) FinishTest(string, string, *api.TestResult) {}
func (nopGatherer) FinishSuite(string, *api.SuiteResult)       {}
func (nopGatherer) FinishRun(error)                            {}

// NopGatherers discards every event
func NopGatherers(string) Gatherer { return nopGatherer{} }

type multiGatherer []Gatherer

// MultiGatherers fans every event out to the gatherers created by each factory
func MultiGatherers(factories ...GathererFactory) GathererFactory {
	return func(runUuid string) Gatherer {
		res := make(multiGatherer, 0, len(factories))
		for _, f := range factories {
			res = append(res, f(runUuid))
		}
		return res
	}
}

func (m multiGatherer) StartRun(root string) {
	for _, g := range m {
		g.StartRun(root)
	}
}

func (m multiGatherer) StartSuite(suite string, testCount int) {
	for _, g := range m {
		g.StartSuite(suite, testCount)
	}
}

func (m multiGatherer) FinishTest(suite string, test string, res *api.TestResult) {
	for _, g := range m {
		g.FinishTest(suite, test, res)
	}
}

func (m multiGatherer) FinishSuite(suite string, res *api.SuiteResult) {
	for _, g := range m {
		g.FinishSuite(suite, res)
	}
}

func (m multiGatherer) FinishRun(errIfAny error) {
	for _, g := range m {
		g.FinishRun(errIfAny)
	}
}

// Replay streams an existing result map through a new gatherer, suites and
// tests in sorted order. It returns the run uuid handed to the factory.
func Replay(results api.SuiteResultMap, root string, factory GathererFactory) string {
	runUuid := uuid.NewString()
	gath := factory(runUuid)
	gath.StartRun(root)
	for _, suite := range results.SuiteNames() {
		sr := results[suite]
		gath.StartSuite(suite, sr.Len())
		for _, test := range sr.TestNames() {
			tr := sr.TestResults[test]
			gath.FinishTest(suite, test, &tr)
		}
		gath.FinishSuite(suite, &sr)
	}
	gath.FinishRun(nil)
	return runUuid
}
