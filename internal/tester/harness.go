package tester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/programme-lv/zktester/internal/runner"
)

// TracingVerbosity is the verbosity at which the executor records traces
// for every test, not just failing ones
const TracingVerbosity = 5

var sharedCache = artifacts.NewCache()

// Harness builds runners for a project whose artifacts were compiled ahead
// of time. Artifact directories are loaded once per Cache.
type Harness struct {
	Root           string
	ArtifactsDir   string
	ZkArtifactsDir string

	Executor  runner.Executor
	Resolver  runner.EnvironmentResolver
	Gatherers runner.GathererFactory
	Logger    *slog.Logger

	// Cache defaults to a process wide cache
	Cache *artifacts.Cache
}

// BaseConfig is the project config with read-write access to the manifest root
func (h *Harness) BaseConfig() config.Config {
	cfg := config.WithRoot(h.Root)
	cfg.FsPermissions = config.FsPermissions{
		config.ReadWritePermission(config.ManifestRoot(h.Root)),
	}
	return cfg
}

// Runner builds a runner over the EVM artifacts with the base config
func (h *Harness) Runner(ctx context.Context) (*runner.Runner, error) {
	return h.RunnerWithConfig(ctx, h.BaseConfig())
}

// RunnerWithConfig builds a runner over the EVM artifacts. The default rpc
// endpoints replace the configured ones and the manifest root is allowed.
func (h *Harness) RunnerWithConfig(ctx context.Context, cfg config.Config) (*runner.Runner, error) {
	evm, err := h.artifacts(h.ArtifactsDir)
	if err != nil {
		return nil, err
	}
	cfg = h.prepare(cfg)
	return h.builder(&cfg).Build(ctx, h.Root, evm, h.Resolver, cfg.EvmOpts())
}

// RunnerWithConfigAndZk is RunnerWithConfig with the zk artifacts correlated
// into the runner's cheats config
func (h *Harness) RunnerWithConfigAndZk(ctx context.Context, cfg config.Config) (*runner.Runner, error) {
	if h.ZkArtifactsDir == "" {
		return nil, errors.New("no zk artifacts directory configured")
	}
	evm, err := h.artifacts(h.ArtifactsDir)
	if err != nil {
		return nil, err
	}
	zk, err := h.artifacts(h.ZkArtifactsDir)
	if err != nil {
		return nil, err
	}
	cfg = h.prepare(cfg)
	return h.builder(&cfg).BuildDual(ctx, h.Root, evm, zk, h.Resolver, cfg.EvmOpts())
}

// TracingRunner builds a runner that records traces for every test
func (h *Harness) TracingRunner(ctx context.Context) (*runner.Runner, error) {
	cfg := h.BaseConfig()
	cfg.Verbosity = TracingVerbosity
	return h.RunnerWithConfig(ctx, cfg)
}

// ForkedRunner builds a runner forked from rpc. The chain id is taken from the fork.
func (h *Harness) ForkedRunner(ctx context.Context, rpc string) (*runner.Runner, error) {
	cfg := h.BaseConfig()
	cfg.ForkURL = rpc
	cfg.ChainID = nil
	return h.RunnerWithConfig(ctx, cfg)
}

func (h *Harness) prepare(cfg config.Config) config.Config {
	cfg.RpcEndpoints = config.DefaultRpcEndpoints()
	allow := make([]string, 0, len(cfg.AllowPaths)+1)
	allow = append(allow, cfg.AllowPaths...)
	cfg.AllowPaths = append(allow, config.ManifestRoot(h.Root))
	return cfg
}

func (h *Harness) builder(cfg *config.Config) runner.Builder {
	opts := cfg.TestOptions()
	return runner.Builder{
		Options:   &opts,
		Config:    cfg,
		Executor:  h.Executor,
		Gatherers: h.Gatherers,
		Logger:    h.Logger,
	}
}

func (h *Harness) artifacts(dir string) (*artifacts.Set, error) {
	cache := h.Cache
	if cache == nil {
		cache = sharedCache
	}
	set, err := cache.Get(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts from %s: %w", dir, err)
	}
	return set, nil
}
