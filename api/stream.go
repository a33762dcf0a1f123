package api

import "time"

// MsgType is a message type for streaming run events
type MsgType string

// Streaming message type constants
const (
	StartRunMsg    MsgType = "run_start"
	StartSuiteMsg  MsgType = "suite_start"
	FinishTestMsg  MsgType = "test_finish"
	FinishSuiteMsg MsgType = "suite_finish"
	FinishRunMsg   MsgType = "run_finish"
)

// Size constraints for reasons and logs sent over the wire
const (
	MaxStreamLogHeight = 40
	MaxStreamLogWidth  = 120
)

// Header is the common header for all streaming messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent when a filtered run begins
type StartRun struct {
	Header
	Root        string `json:"root"`
	StartedTime string `json:"started_time"`
}

// StartSuite message sent when a suite begins
type StartSuite struct {
	Header
	Suite     string `json:"suite"`
	TestCount int    `json:"test_count"`
}

// FinishTest message sent when a single test completes
type FinishTest struct {
	Header
	Suite       string     `json:"suite"`
	Test        string     `json:"test"`
	Status      TestStatus `json:"status"`
	Reason      *string    `json:"reason"`
	DecodedLogs []string   `json:"decoded_logs"`
	DurationMs  int64      `json:"duration_ms"`
}

// FinishSuite message sent when all tests of a suite completed
type FinishSuite struct {
	Header
	Suite    string   `json:"suite"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings"`
}

// FinishRun message sent when the run completes
type FinishRun struct {
	Header
	ErrorMessage *string `json:"error_message"`
	FinishedTime string  `json:"finished_time"`
}

// Helper function to create a header
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartRun(runUuid, root string) StartRun {
	return StartRun{
		Header:      NewHeader(runUuid, StartRunMsg),
		Root:        root,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartSuite(runUuid, suite string, testCount int) StartSuite {
	return StartSuite{
		Header:    NewHeader(runUuid, StartSuiteMsg),
		Suite:     suite,
		TestCount: testCount,
	}
}

func NewFinishTest(runUuid, suite, test string, res *TestResult) FinishTest {
	return FinishTest{
		Header:      NewHeader(runUuid, FinishTestMsg),
		Suite:       suite,
		Test:        test,
		Status:      res.Status,
		Reason:      res.Reason,
		DecodedLogs: res.DecodedLogs,
		DurationMs:  res.Duration.Milliseconds(),
	}
}

func NewFinishSuite(runUuid, suite string, res *SuiteResult) FinishSuite {
	msg := FinishSuite{
		Header:   NewHeader(runUuid, FinishSuiteMsg),
		Suite:    suite,
		Warnings: res.Warnings,
	}
	for _, tr := range res.TestResults {
		if tr.Status == Success {
			msg.Passed++
		} else {
			msg.Failed++
		}
	}
	return msg
}

func NewFinishRun(runUuid string, errorMessage *string) FinishRun {
	return FinishRun{
		Header:       NewHeader(runUuid, FinishRunMsg),
		ErrorMessage: errorMessage,
		FinishedTime: time.Now().Format(time.RFC3339),
	}
}
