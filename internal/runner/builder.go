// Package runner builds multi-contract test runners and executes filtered
// suites through an external Executor.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ethereum/go-ethereum/common"
	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/programme-lv/zktester/internal/dualcompile"
)

// ErrEnvironmentResolution is matched by every EnvironmentResolutionError
var ErrEnvironmentResolution = errors.New("environment resolution failed")

// EnvironmentResolutionError is returned by Build when the resolver fails
type EnvironmentResolutionError struct {
	ForkURL string
	Err     error
}

func (e *EnvironmentResolutionError) Error() string {
	if e.ForkURL != "" {
		return fmt.Sprintf("could not instantiate fork environment (%s): %v", e.ForkURL, e.Err)
	}
	return fmt.Sprintf("could not instantiate environment: %v", e.Err)
}

func (e *EnvironmentResolutionError) Unwrap() error {
	return e.Err
}

func (e *EnvironmentResolutionError) Is(target error) bool {
	return target == ErrEnvironmentResolution
}

// CheatsConfig is the configuration exposed to cheatcodes of the executor.
// DualCompiledContracts belongs to the runner it was built for and is never
// modified after Build.
type CheatsConfig struct {
	Root          string
	RpcEndpoints  config.RpcEndpoints
	FsPermissions config.FsPermissions
	AllowPaths    []string
	EvmOpts       config.EvmOpts

	DualCompiledContracts []dualcompile.DualCompiledContract
}

// Builder assembles runners. The zero value is usable; every field has a default.
type Builder struct {
	// Sender defaults to EvmOpts.Sender, then to config.DefaultSender
	Sender common.Address
	// Options defaults to config.DefaultTestOptions
	Options *config.TestOptions
	// Config supplies fs permissions, allow paths and rpc endpoints
	Config *config.Config

	Executor    Executor
	Gatherers   GathererFactory
	Logger      *slog.Logger
	Parallelism int
}

// Build resolves the execution environment once and assembles a runner.
// Resolution failures are returned as *EnvironmentResolutionError without retrying.
func (b Builder) Build(
	ctx context.Context,
	root string,
	arts *artifacts.Set,
	resolver EnvironmentResolver,
	evmOpts config.EvmOpts,
) (*Runner, error) {
	return b.build(ctx, root, arts, resolver, evmOpts, nil)
}

// BuildDual correlates the EVM and zk artifact sets and builds a runner whose
// cheats config carries the resulting dual compiled contracts. The runner
// executes the EVM artifacts.
func (b Builder) BuildDual(
	ctx context.Context,
	root string,
	evm *artifacts.Set,
	zk *artifacts.Set,
	resolver EnvironmentResolver,
	evmOpts config.EvmOpts,
) (*Runner, error) {
	dual := dualcompile.Correlate(evm, zk, b.logger())
	return b.build(ctx, root, evm, resolver, evmOpts, dual)
}

func (b Builder) build(
	ctx context.Context,
	root string,
	arts *artifacts.Set,
	resolver EnvironmentResolver,
	evmOpts config.EvmOpts,
	dual []dualcompile.DualCompiledContract,
) (*Runner, error) {
	if arts == nil {
		return nil, fmt.Errorf("no artifacts given")
	}
	if resolver == nil {
		return nil, fmt.Errorf("no environment resolver given")
	}
	if b.Executor == nil {
		return nil, fmt.Errorf("no executor given")
	}
	logger := b.logger()

	logger.Debug("resolving environment", "fork", evmOpts.ForkURL)
	env, err := resolver.ResolveEnvironment(ctx, evmOpts)
	if err != nil {
		return nil, &EnvironmentResolutionError{ForkURL: evmOpts.ForkURL, Err: err}
	}
	if env == nil {
		return nil, &EnvironmentResolutionError{ForkURL: evmOpts.ForkURL, Err: errors.New("resolver returned no environment")}
	}

	opts := config.DefaultTestOptions()
	if b.Options != nil {
		opts = *b.Options
	}

	sender := b.Sender
	if sender == (common.Address{}) {
		sender = evmOpts.Sender
	}
	if sender == (common.Address{}) {
		sender = config.DefaultSender
	}

	cheats := CheatsConfig{
		Root:                  root,
		EvmOpts:               evmOpts,
		RpcEndpoints:          config.RpcEndpoints{},
		DualCompiledContracts: dual,
	}
	if b.Config != nil {
		for alias, e := range b.Config.RpcEndpoints {
			cheats.RpcEndpoints[alias] = e
		}
		cheats.FsPermissions = b.Config.FsPermissions.Joined(root)
		cheats.AllowPaths = append([]string(nil), b.Config.AllowPaths...)
	}

	gatherers := b.Gatherers
	if gatherers == nil {
		gatherers = NopGatherers
	}
	parallelism := b.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	logger.Info("built runner",
		"root", root,
		"contracts", arts.Len(),
		"dual_compiled", len(dual),
		"sender", sender.Hex(),
		"fork", env.Fork != nil)

	return &Runner{
		Root:        root,
		Sender:      sender,
		Env:         env,
		Fork:        env.Fork,
		Options:     opts,
		Cheats:      cheats,
		artifacts:   arts,
		executor:    b.Executor,
		gatherers:   gatherers,
		logger:      logger,
		parallelism: parallelism,
	}, nil
}

func (b Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
