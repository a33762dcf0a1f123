package api

// RunStatus is the overall outcome of a run
type RunStatus string

const (
	RunPassed  RunStatus = "passed"
	RunFailed  RunStatus = "failed"
	RunAborted RunStatus = "aborted"
)

// TestSummary is the reported outcome of one test
type TestSummary struct {
	Test       string     `json:"test"`
	Status     TestStatus `json:"status"`
	Reason     *string    `json:"reason"`
	DurationMs int64      `json:"duration_ms"`
}

// SuiteSummary is the reported outcome of one suite, tests sorted by name
type SuiteSummary struct {
	Suite    string        `json:"suite"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Warnings []string      `json:"warnings"`
	Tests    []TestSummary `json:"tests"`
}

// RunReport is the complete outcome of a run
type RunReport struct {
	RunUuid      string         `json:"run_uuid"`
	Root         string         `json:"root"`
	Status       RunStatus      `json:"status"`
	Suites       []SuiteSummary `json:"suites"`
	ErrorMessage *string        `json:"error_message"`
	StartTime    string         `json:"start_time"`
	FinishTime   string         `json:"finish_time"`
	TotalTimeMs  int64          `json:"total_time_ms"`
}
