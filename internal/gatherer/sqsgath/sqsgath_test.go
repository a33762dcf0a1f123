package sqsgath

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/zktester/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	inputs []*sqs.SendMessageInput
}

func (f *fakeSender) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestGatherer_SendsToQueue(t *testing.T) {
	client := &fakeSender{}
	g := newGatherer(client, "run-1", "https://sqs.eu-central-1.amazonaws.com/1/results")

	g.StartRun("/project")
	g.StartSuite("Token", 2)
	g.FinishTest("Token", "testTransfer", &api.TestResult{Status: api.Success, DecodedLogs: []string{"sent"}})
	g.FinishRun(nil)

	require.Len(t, client.inputs, 4)
	for _, in := range client.inputs {
		assert.Equal(t, "https://sqs.eu-central-1.amazonaws.com/1/results", aws.ToString(in.QueueUrl))
	}

	var start api.StartSuite
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[1].MessageBody)), &start))
	assert.Equal(t, api.StartSuiteMsg, start.MsgType)
	assert.Equal(t, "Token", start.Suite)
	assert.Equal(t, 2, start.TestCount)

	var ft api.FinishTest
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[2].MessageBody)), &ft))
	assert.Equal(t, api.Success, ft.Status)
	assert.Equal(t, []string{"sent"}, ft.DecodedLogs)
	assert.Equal(t, "run-1", ft.RunUuid)
}
