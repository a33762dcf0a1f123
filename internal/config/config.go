// Package config holds the runner configuration: test option defaults and
// overrides, the RPC endpoint table, filesystem permissions and the project
// config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/zktester/internal/xdg"
)

// ConfigFileName is the config file looked up in the project root
const ConfigFileName = "zktester.toml"

// DefaultSender is the address tests are sent from unless configured otherwise
var DefaultSender = common.HexToAddress("0x1804c8AB1F12E6bbf3894d4083f33e07309d1f38")

// Config is the project configuration used when building runners
type Config struct {
	Root string `toml:"-"`

	Sender        common.Address `toml:"sender"`
	FsPermissions FsPermissions  `toml:"fs_permissions"`
	AllowPaths    []string       `toml:"allow_paths"`
	RpcEndpoints  RpcEndpoints   `toml:"rpc_endpoints"`

	ForkURL         string  `toml:"eth_rpc_url"`
	ForkBlockNumber *uint64 `toml:"fork_block_number"`
	ChainID         *uint64 `toml:"chain_id"`
	Verbosity       int     `toml:"verbosity"`

	Options Overrides `toml:"options"`
}

// WithRoot returns the default configuration for a project root
func WithRoot(root string) Config {
	return Config{
		Root:         root,
		Sender:       DefaultSender,
		RpcEndpoints: RpcEndpoints{},
	}
}

// AppName names the per-user config directory
const AppName = "zktester"

// Load reads root/.env into the process environment, if present, and then
// decodes the user config ($XDG_CONFIG_HOME/zktester/zktester.toml) and
// root/zktester.toml on top of the defaults. Missing config files are skipped.
func Load(root string) (Config, error) {
	cfg := WithRoot(root)

	err := godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path, ok := xdg.New().FindConfig(AppName, ConfigFileName); ok {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := decodeFile(filepath.Join(root, ConfigFileName), &cfg); err != nil {
		return cfg, err
	}

	cfg.Root = root
	if cfg.RpcEndpoints == nil {
		cfg.RpcEndpoints = RpcEndpoints{}
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// TestOptions returns the defaults with the configured overrides applied
func (c Config) TestOptions() TestOptions {
	return ApplyOverrides(DefaultTestOptions(), c.Options)
}

// EvmOpts returns the options handed to the environment resolver
func (c Config) EvmOpts() EvmOpts {
	return EvmOpts{
		Sender:          c.Sender,
		ForkURL:         c.ForkURL,
		ForkBlockNumber: c.ForkBlockNumber,
		ChainID:         c.ChainID,
		Verbosity:       c.Verbosity,
	}
}

// EvmOpts describe the execution environment to resolve
type EvmOpts struct {
	Sender          common.Address
	ForkURL         string
	ForkBlockNumber *uint64
	// ChainID is nil when the chain id should be fetched from the fork
	ChainID   *uint64
	Verbosity int
}

// IsFork reports whether the environment is forked from a remote chain
func (o EvmOpts) IsFork() bool {
	return o.ForkURL != ""
}

// ManifestRoot returns the directory tests are executed from. When invoked
// from the forge crate directory its parent is used so testdata is reachable.
func ManifestRoot(dir string) string {
	dir = filepath.Clean(dir)
	if filepath.Base(dir) == "forge" {
		return filepath.Dir(dir)
	}
	return dir
}
