package runner

//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
)

// Environment is the resolved block and chain environment tests execute in
type Environment struct {
	ChainID        uint64
	BlockNumber    uint64
	BlockTimestamp uint64
	GasLimit       uint64
	GasPrice       uint64

	// Fork is nil unless the environment was forked from a remote chain
	Fork *Fork
}

// Fork describes the remote chain state the environment was created from
type Fork struct {
	URL         string
	BlockNumber uint64
}

// EnvironmentResolver resolves the execution environment, fetching fork
// state when a fork url is configured. It is called once per runner build.
type EnvironmentResolver interface {
	ResolveEnvironment(ctx context.Context, opts config.EvmOpts) (*Environment, error)
}

// EnvironmentResolverFunc adapts a function to EnvironmentResolver
type EnvironmentResolverFunc func(ctx context.Context, opts config.EvmOpts) (*Environment, error)

func (f EnvironmentResolverFunc) ResolveEnvironment(ctx context.Context, opts config.EvmOpts) (*Environment, error) {
	return f(ctx, opts)
}

// TestRequest is everything the executor needs to run one test function.
// Artifact and Cheats are shared and must be treated as read-only.
type TestRequest struct {
	Suite    string
	Test     string
	Artifact *artifacts.Artifact

	Sender  common.Address
	Env     *Environment
	Options config.TestOptions
	Cheats  *CheatsConfig
}

// Executor executes a single test function against a bytecode backend.
// Implementations must keep each test's state isolated; ExecuteTest is called
// concurrently.
type Executor interface {
	ExecuteTest(ctx context.Context, req TestRequest) (*api.TestResult, error)
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context, req TestRequest) (*api.TestResult, error)

func (f ExecutorFunc) ExecuteTest(ctx context.Context, req TestRequest) (*api.TestResult, error) {
	return f(ctx, req)
}
