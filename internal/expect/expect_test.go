package expect_test

import (
	"strings"
	"testing"

	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func fooResults(logs ...string) api.SuiteResultMap {
	return api.SuiteResultMap{
		"Foo": {TestResults: map[string]api.TestResult{
			"testAdd": {Status: api.Success, DecodedLogs: logs},
		}},
	}
}

func fooTable() expect.Table {
	return expect.Table{
		"Foo": {{Test: "testAdd", ShouldPass: true, Logs: []string{"x=2"}}},
	}
}

func requireMismatch(t *testing.T, err error, check expect.Check) *expect.MismatchError {
	t.Helper()
	var mismatch *expect.MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, check, mismatch.Check, err.Error())
	return mismatch
}

func TestAssert_LogsMatch(t *testing.T) {
	require.NoError(t, expect.Assert(fooResults("x=2"), fooTable()))
}

func TestAssert_LogsMismatch(t *testing.T) {
	err := expect.Assert(fooResults("x=3"), fooTable())
	m := requireMismatch(t, err, expect.CheckLogs)
	assert.Equal(t, "Foo", m.Contract)
	assert.Equal(t, "testAdd", m.Test)
	assert.Equal(t, `["x=2"]`, m.Expected)
	assert.Equal(t, `["x=3"]`, m.Actual)
	assert.NotEmpty(t, m.Diff)
	assert.True(t, strings.HasPrefix(err.Error(), "Assertion failed: logs (Foo::testAdd)\n"))
}

func TestAssert_LogsFullEquality(t *testing.T) {
	// a prefix is not enough
	err := expect.Assert(fooResults("x=2", "y=1"), fooTable())
	requireMismatch(t, err, expect.CheckLogs)

	// order matters
	table := expect.Table{"Foo": {{Test: "testAdd", ShouldPass: true, Logs: []string{"b", "a"}}}}
	requireMismatch(t, expect.Assert(fooResults("a", "b"), table), expect.CheckLogs)

	// empty expected logs match no logs
	table = expect.Table{"Foo": {{Test: "testAdd", ShouldPass: true, Logs: []string{}}}}
	require.NoError(t, expect.Assert(fooResults(), table))

	// nil expected logs are not compared
	table = expect.Table{"Foo": {{Test: "testAdd", ShouldPass: true}}}
	require.NoError(t, expect.Assert(fooResults("anything"), table))
}

func TestAssert_SuiteCount(t *testing.T) {
	actual := fooResults("x=2")
	actual["Bar"] = api.SuiteResult{}
	m := requireMismatch(t, expect.Assert(actual, fooTable()), expect.CheckSuiteCount)
	assert.Equal(t, "1", m.Expected)
	assert.Equal(t, "2", m.Actual)
}

func TestAssert_ContractMissing(t *testing.T) {
	table := expect.Table{"Bar": {{Test: "testAdd", ShouldPass: true}}}
	m := requireMismatch(t, expect.Assert(fooResults(), table), expect.CheckContract)
	assert.Equal(t, "Bar", m.Contract)
}

func TestAssert_TestCountBeforeStatus(t *testing.T) {
	actual := api.SuiteResultMap{
		"A": {TestResults: map[string]api.TestResult{"testA": {Status: api.Failure}}},
		"B": {TestResults: map[string]api.TestResult{
			"testA": {Status: api.Success},
			"testB": {Status: api.Success},
		}},
	}
	table := expect.Table{
		"A": {{Test: "testA", ShouldPass: true}},
		"B": {{Test: "testA", ShouldPass: true}},
	}
	// A.testA has the wrong status but the count of B is checked first
	m := requireMismatch(t, expect.Assert(actual, table), expect.CheckTestCount)
	assert.Equal(t, "B", m.Contract)
}

func TestAssert_Status(t *testing.T) {
	actual := api.SuiteResultMap{
		"Foo": {TestResults: map[string]api.TestResult{
			"testA": {Status: api.Success},
			"testB": {Status: api.Success},
		}},
	}
	table := expect.Table{"Foo": {
		{Test: "testB", ShouldPass: false},
		{Test: "testA", ShouldPass: false},
	}}
	m := requireMismatch(t, expect.Assert(actual, table), expect.CheckStatus)
	assert.Equal(t, "testB", m.Test)
	assert.Equal(t, "failure", m.Expected)
	assert.Equal(t, "success", m.Actual)

	table = expect.Table{"Foo": {
		{Test: "testA", ShouldPass: true},
		{Test: "testC", ShouldPass: true},
	}}
	m = requireMismatch(t, expect.Assert(actual, table), expect.CheckStatus)
	assert.Equal(t, "testC", m.Test)
	assert.Equal(t, "test was not run", m.Actual)
}

func TestAssert_Reason(t *testing.T) {
	results := func(reason *string) api.SuiteResultMap {
		return api.SuiteResultMap{
			"Foo": {TestResults: map[string]api.TestResult{
				"testRevert": {Status: api.Failure, Reason: reason},
			}},
		}
	}
	table := func(reason *string) expect.Table {
		return expect.Table{"Foo": {{Test: "testRevert", ShouldPass: false, Reason: reason}}}
	}

	require.NoError(t, expect.Assert(results(strPtr("revert")), table(strPtr("revert"))))
	require.NoError(t, expect.Assert(results(nil), table(nil)))

	m := requireMismatch(t, expect.Assert(results(strPtr("revert")), table(strPtr("Revert"))), expect.CheckReason)
	assert.Equal(t, `"Revert"`, m.Expected)

	m = requireMismatch(t, expect.Assert(results(nil), table(strPtr("revert"))), expect.CheckReason)
	assert.Equal(t, "none", m.Actual)

	requireMismatch(t, expect.Assert(results(strPtr("revert")), table(nil)), expect.CheckReason)
}

func TestAssert_ReasonIgnoredOnPass(t *testing.T) {
	actual := api.SuiteResultMap{
		"Foo": {TestResults: map[string]api.TestResult{
			"testA": {Status: api.Success, Reason: strPtr("ignored")},
		}},
	}
	table := expect.Table{"Foo": {{Test: "testA", ShouldPass: true}}}
	require.NoError(t, expect.Assert(actual, table))
}

func TestAssert_WarningCount(t *testing.T) {
	actual := api.SuiteResultMap{
		"Foo": {
			TestResults: map[string]api.TestResult{"testA": {Status: api.Success}},
			Warnings:    []string{"testFail* has been deprecated"},
		},
	}
	table := expect.Table{"Foo": {{Test: "testA", ShouldPass: true, WarningCount: intPtr(1)}}}
	require.NoError(t, expect.Assert(actual, table))

	table["Foo"][0].WarningCount = intPtr(0)
	m := requireMismatch(t, expect.Assert(actual, table), expect.CheckWarningCount)
	assert.Equal(t, "0", m.Expected)
	assert.Equal(t, "1", m.Actual)
}

func TestAssert_Empty(t *testing.T) {
	require.NoError(t, expect.Assert(api.SuiteResultMap{}, expect.Table{}))
}
