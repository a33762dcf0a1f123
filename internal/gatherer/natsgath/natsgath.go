// Package natsgath streams run events as JSON messages to a NATS subject.
package natsgath

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/runner"
)

type publisher interface {
	Publish(subj string, data []byte) error
}

type natsGatherer struct {
	pub     publisher
	subject string
	runUuid string
	logger  *slog.Logger
}

// New creates a gatherer that publishes the events of one run to subject
func New(nc *nats.Conn, runUuid string, subject string) runner.Gatherer {
	return newGatherer(nc, runUuid, subject)
}

// Factory returns a gatherer factory publishing every run to subject
func Factory(nc *nats.Conn, subject string) runner.GathererFactory {
	return func(runUuid string) runner.Gatherer {
		return New(nc, runUuid, subject)
	}
}

func newGatherer(pub publisher, runUuid string, subject string) *natsGatherer {
	return &natsGatherer{
		pub:     pub,
		subject: subject,
		runUuid: runUuid,
		logger:  slog.Default().With("gatherer", "nats", "run", runUuid),
	}
}

func (s *natsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "error", err)
		return
	}
	if err := s.pub.Publish(s.subject, b); err != nil {
		s.logger.Error("failed to publish message to NATS", "error", err)
	}
}

func (s *natsGatherer) StartRun(root string) {
	s.send(api.NewStartRun(s.runUuid, root))
}

func (s *natsGatherer) StartSuite(suite string, testCount int) {
	s.send(api.NewStartSuite(s.runUuid, suite, testCount))
}

func (s *natsGatherer) FinishTest(suite string, test string, res *api.TestResult) {
	s.send(api.NewFinishTest(s.runUuid, suite, test, res).Trimmed())
}

func (s *natsGatherer) FinishSuite(suite string, res *api.SuiteResult) {
	s.send(api.NewFinishSuite(s.runUuid, suite, res))
}

func (s *natsGatherer) FinishRun(errIfAny error) {
	var msg *string
	if errIfAny != nil {
		m := errIfAny.Error()
		msg = &m
	}
	s.send(api.NewFinishRun(s.runUuid, msg))
}
