// Package expect compares suite results against a table of per-test
// expectations.
package expect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/programme-lv/zktester/api"
)

// Check names the comparison that failed
type Check string

const (
	CheckSuiteCount   Check = "suite_count"
	CheckContract     Check = "contract_present"
	CheckTestCount    Check = "test_count"
	CheckStatus       Check = "status"
	CheckReason       Check = "reason"
	CheckLogs         Check = "logs"
	CheckWarningCount Check = "warning_count"
)

// Expectation is the expected outcome of one test function.
// Nil Logs and WarningCount are not compared.
type Expectation struct {
	Test         string   `toml:"test"`
	ShouldPass   bool     `toml:"should_pass"`
	Reason       *string  `toml:"reason"`
	Logs         []string `toml:"logs"`
	WarningCount *int     `toml:"warning_count"`
}

// Table maps contract names to the expectations of their tests
type Table map[string][]Expectation

// Contracts returns the contract names in sorted order
func (t Table) Contracts() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MismatchError is the first violated check
type MismatchError struct {
	Check    Check
	Contract string
	Test     string
	Expected string
	Actual   string
	// Diff is set for log mismatches
	Diff string
}

func (e *MismatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Check)
	switch {
	case e.Test != "":
		fmt.Fprintf(&buf, " (%s::%s)", e.Contract, e.Test)
	case e.Contract != "":
		fmt.Fprintf(&buf, " (%s)", e.Contract)
	}
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "\nDiff (-expected +actual):\n%s", e.Diff)
	}
	return buf.String()
}

// Assert compares actual against table and returns the first mismatch.
// Suite count, contract presence and test counts are checked for every
// contract before any per-test check runs. Tests are then checked in table
// order, contracts in name order. Unlike checking each contract fully
// before the next, a count mismatch in any contract wins over a status
// mismatch in an earlier one.
func Assert(actual api.SuiteResultMap, table Table) error {
	if len(actual) != len(table) {
		return &MismatchError{
			Check:    CheckSuiteCount,
			Expected: strconv.Itoa(len(table)),
			Actual:   strconv.Itoa(len(actual)),
		}
	}

	contracts := table.Contracts()
	for _, contract := range contracts {
		if _, ok := actual[contract]; !ok {
			return &MismatchError{
				Check:    CheckContract,
				Contract: contract,
				Expected: "contract was run",
				Actual:   "contract was not run",
			}
		}
	}
	for _, contract := range contracts {
		if got, want := actual[contract].Len(), len(table[contract]); got != want {
			return &MismatchError{
				Check:    CheckTestCount,
				Contract: contract,
				Expected: strconv.Itoa(want),
				Actual:   strconv.Itoa(got),
			}
		}
	}

	for _, contract := range contracts {
		suite := actual[contract]
		for _, exp := range table[contract] {
			if err := assertTest(contract, suite, exp); err != nil {
				return err
			}
		}
	}
	return nil
}

func assertTest(contract string, suite api.SuiteResult, exp Expectation) error {
	mismatch := func(check Check, expected, actual string) *MismatchError {
		return &MismatchError{
			Check:    check,
			Contract: contract,
			Test:     exp.Test,
			Expected: expected,
			Actual:   actual,
		}
	}

	res, ok := suite.TestResults[exp.Test]
	if !ok {
		return mismatch(CheckStatus, expectedStatus(exp.ShouldPass), "test was not run")
	}
	if (res.Status == api.Success) != exp.ShouldPass {
		return mismatch(CheckStatus, expectedStatus(exp.ShouldPass), string(res.Status))
	}

	if !exp.ShouldPass && !equalReason(exp.Reason, res.Reason) {
		return mismatch(CheckReason, formatReason(exp.Reason), formatReason(res.Reason))
	}

	if exp.Logs != nil && !cmp.Equal(exp.Logs, res.DecodedLogs, nilIsEmpty) {
		err := mismatch(CheckLogs, formatLogs(exp.Logs), formatLogs(res.DecodedLogs))
		err.Diff = cmp.Diff(exp.Logs, res.DecodedLogs, nilIsEmpty)
		return err
	}

	if exp.WarningCount != nil && *exp.WarningCount != len(suite.Warnings) {
		return mismatch(CheckWarningCount, strconv.Itoa(*exp.WarningCount), strconv.Itoa(len(suite.Warnings)))
	}
	return nil
}

var nilIsEmpty = cmpopts.EquateEmpty()

func expectedStatus(shouldPass bool) string {
	if shouldPass {
		return string(api.Success)
	}
	return string(api.Failure)
}

func equalReason(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatReason(r *string) string {
	if r == nil {
		return "none"
	}
	return strconv.Quote(*r)
}

func formatLogs(logs []string) string {
	quoted := make([]string, len(logs))
	for i, l := range logs {
		quoted[i] = strconv.Quote(l)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
