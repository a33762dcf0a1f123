// Package sqsgath sends run events as JSON messages to an SQS queue.
package sqsgath

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/runner"
)

// DefaultRegion is used when no region is configured
const DefaultRegion = "eu-central-1"

type sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsGatherer struct {
	client   sender
	queueUrl string
	runUuid  string
	logger   *slog.Logger
}

// NewClient loads the default AWS config for region
func NewClient(ctx context.Context, region string) (*sqs.Client, error) {
	if region == "" {
		region = DefaultRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

// New creates a gatherer that sends the events of one run to queueUrl
func New(client *sqs.Client, runUuid string, queueUrl string) runner.Gatherer {
	return newGatherer(client, runUuid, queueUrl)
}

// Factory returns a gatherer factory sending every run to queueUrl
func Factory(client *sqs.Client, queueUrl string) runner.GathererFactory {
	return func(runUuid string) runner.Gatherer {
		return New(client, runUuid, queueUrl)
	}
}

func newGatherer(client sender, runUuid string, queueUrl string) *sqsGatherer {
	return &sqsGatherer{
		client:   client,
		queueUrl: queueUrl,
		runUuid:  runUuid,
		logger:   slog.Default().With("gatherer", "sqs", "run", runUuid),
	}
}

func (s *sqsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "error", err)
		return
	}

	_, err = s.client.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		s.logger.Error("failed to send message", "error", err)
	}
}

func (s *sqsGatherer) StartRun(root string) {
	s.send(api.NewStartRun(s.runUuid, root))
}

func (s *sqsGatherer) StartSuite(suite string, testCount int) {
	s.send(api.NewStartSuite(s.runUuid, suite, testCount))
}

func (s *sqsGatherer) FinishTest(suite string, test string, res *api.TestResult) {
	s.send(api.NewFinishTest(s.runUuid, suite, test, res).Trimmed())
}

func (s *sqsGatherer) FinishSuite(suite string, res *api.SuiteResult) {
	s.send(api.NewFinishSuite(s.runUuid, suite, res))
}

func (s *sqsGatherer) FinishRun(errIfAny error) {
	var msg *string
	if errIfAny != nil {
		m := errIfAny.Error()
		msg = &m
	}
	s.send(api.NewFinishRun(s.runUuid, msg))
}
