package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TestStatus is the outcome of a single test function
type TestStatus string

const (
	Success TestStatus = "success"
	Failure TestStatus = "failure"
)

// Log is a raw log record emitted during test execution
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// TraceKind tells which phase of the test produced a call-trace arena
type TraceKind string

const (
	DeploymentTrace TraceKind = "deployment"
	SetupTrace      TraceKind = "setup"
	ExecutionTrace  TraceKind = "execution"
)

// CallTraceNode is one call record inside a call-trace arena.
// Children hold indices into the owning arena's Nodes.
type CallTraceNode struct {
	Depth    int            `json:"depth"`
	Caller   common.Address `json:"caller"`
	Address  common.Address `json:"address"`
	Kind     string         `json:"kind"`
	Data     hexutil.Bytes  `json:"data"`
	Output   hexutil.Bytes  `json:"output"`
	Value    *hexutil.Big   `json:"value,omitempty"`
	GasUsed  uint64         `json:"gas_used"`
	Success  bool           `json:"success"`
	Children []int          `json:"children"`
}

// CallTraceArena is the in-memory call tree captured while executing a test
type CallTraceArena struct {
	Kind  TraceKind       `json:"kind"`
	Nodes []CallTraceNode `json:"nodes"`
}

// TestResult is the result of executing one test function
type TestResult struct {
	Status TestStatus `json:"status"`
	// Reason is the failure reason, if any
	Reason      *string          `json:"reason"`
	Logs        []Log            `json:"logs"`
	DecodedLogs []string         `json:"decoded_logs"`
	Traces      []CallTraceArena `json:"traces"`
	Duration    time.Duration    `json:"duration"`
}

// SuiteResult holds the results of all test functions of one contract
type SuiteResult struct {
	TestResults map[string]TestResult `json:"test_results"`
	Warnings    []string              `json:"warnings"`
	Duration    time.Duration         `json:"duration"`
}

// Len returns the number of test results in the suite
func (s SuiteResult) Len() int {
	return len(s.TestResults)
}

// TestNames returns the suite's test names in sorted order
func (s SuiteResult) TestNames() []string {
	names := make([]string, 0, len(s.TestResults))
	for name := range s.TestResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuiteResultMap maps suite (contract) names to their results
type SuiteResultMap map[string]SuiteResult

// SuiteNames returns the suite names in sorted order
func (m SuiteResultMap) SuiteNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TestCount returns the total number of test results across all suites
func (m SuiteResultMap) TestCount() int {
	n := 0
	for _, s := range m {
		n += s.Len()
	}
	return n
}

// DecodeSuiteResultMap parses a JSON encoded result map
func DecodeSuiteResultMap(data []byte) (SuiteResultMap, error) {
	var res SuiteResultMap
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode suite results: %w", err)
	}
	if res == nil {
		res = SuiteResultMap{}
	}
	return res, nil
}
