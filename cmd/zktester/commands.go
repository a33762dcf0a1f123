package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nats-io/nats.go"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/zktester/api"
	"github.com/programme-lv/zktester/internal/artifacts"
	"github.com/programme-lv/zktester/internal/config"
	"github.com/programme-lv/zktester/internal/console"
	"github.com/programme-lv/zktester/internal/dualcompile"
	"github.com/programme-lv/zktester/internal/expect"
	"github.com/programme-lv/zktester/internal/gatherer/natsgath"
	"github.com/programme-lv/zktester/internal/gatherer/respbuilder"
	"github.com/programme-lv/zktester/internal/gatherer/sqsgath"
	"github.com/programme-lv/zktester/internal/gatherer/termgath"
	"github.com/programme-lv/zktester/internal/runner"
	"github.com/programme-lv/zktester/internal/tester"
	"github.com/programme-lv/zktester/internal/traces"
	"github.com/urfave/cli/v3"
)

type correlatedContract struct {
	Name            string `json:"name"`
	EvmBytecodeHash string `json:"evm_bytecode_hash"`
	ZkBytecodeHash  string `json:"zk_bytecode_hash"`
}

func correlateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "correlate",
		Usage: "pair EVM and zk artifacts by logical contract name",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "evm", Usage: "EVM artifact directory", Required: true},
			&cli.StringFlag{Name: "zk", Usage: "zk artifact directory", Required: true},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			evm, err := artifacts.LoadDir(cmd.String("evm"))
			if err != nil {
				return fmt.Errorf("failed to load EVM artifacts: %w", err)
			}
			zk, err := artifacts.LoadDir(cmd.String("zk"))
			if err != nil {
				return fmt.Errorf("failed to load zk artifacts: %w", err)
			}

			dual := dualcompile.Correlate(evm, zk, logger)
			sort.Slice(dual, func(i, j int) bool { return dual[i].Name < dual[j].Name })
			res := make([]correlatedContract, 0, len(dual))
			for _, d := range dual {
				res = append(res, correlatedContract{
					Name:            d.Name,
					EvmBytecodeHash: d.EvmBytecodeHash.Hex(),
					ZkBytecodeHash:  d.ZkBytecodeHash.Hex(),
				})
			}
			logger.Info("correlated artifacts", "evm", evm.Len(), "zk", zk.Len(), "dual", len(res))

			if cmd.Bool("json") {
				return writeJSON(out, res)
			}
			for _, c := range res {
				fmt.Fprintf(out, "%s\tevm=%s\tzk=%s\n", c.Name, c.EvmBytecodeHash, c.ZkBytecodeHash)
			}
			return nil
		},
	}
}

func verifyCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check that every test in a result file passed, or failed with --should-fail",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "results", Usage: "JSON suite result file", Required: true},
			&cli.BoolFlag{Name: "should-fail", Usage: "expect every test to fail"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			results, err := readResults(cmd.String("results"))
			if err != nil {
				return err
			}
			v := tester.Verifier{Decoder: console.Decoder{}, Renderer: traces.PlainRenderer{}}
			if err := v.Verify(ctx, results, cmd.Bool("should-fail")); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d tests in %d suites behaved as expected\n", results.TestCount(), len(results))
			return nil
		},
	}
}

func assertCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "assert",
		Usage: "compare a result file against a TOML expectation table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "results", Usage: "JSON suite result file", Required: true},
			&cli.StringFlag{Name: "expect", Usage: "TOML expectation file", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			results, err := readResults(cmd.String("results"))
			if err != nil {
				return err
			}
			table, err := expect.LoadTable(cmd.String("expect"))
			if err != nil {
				return err
			}
			if err := expect.Assert(results, table); err != nil {
				return err
			}
			fmt.Fprintf(out, "all expectations of %d contracts met\n", len(table))
			return nil
		},
	}
}

type defaultsOutput struct {
	Options      config.TestOptions  `toml:"options"`
	RpcEndpoints config.RpcEndpoints `toml:"rpc_endpoints"`
}

func defaultsCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "print the effective test options and rpc endpoints of a project",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "project root", Value: "."},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("root"))
			if err != nil {
				return err
			}
			endpoints := cfg.RpcEndpoints
			if len(endpoints) == 0 {
				endpoints = config.DefaultRpcEndpoints()
			}
			b, err := toml.Marshal(defaultsOutput{Options: cfg.TestOptions(), RpcEndpoints: endpoints})
			if err != nil {
				return fmt.Errorf("failed to encode defaults: %w", err)
			}
			_, err = out.Write(b)
			return err
		},
	}
}

func reportCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "stream a result file to the terminal, NATS or SQS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "results", Usage: "JSON suite result file", Required: true},
			&cli.StringFlag{Name: "root", Usage: "project root reported with the run", Value: "."},
			&cli.StringFlag{Name: "nats-url", Usage: "NATS server to publish events to", Sources: cli.EnvVars("NATS_URL")},
			&cli.StringFlag{Name: "nats-subject", Usage: "NATS subject", Value: "zktester.results"},
			&cli.StringFlag{Name: "sqs-queue-url", Usage: "SQS queue to send events to", Sources: cli.EnvVars("SQS_QUEUE_URL")},
			&cli.StringFlag{Name: "aws-region", Value: sqsgath.DefaultRegion, Sources: cli.EnvVars("AWS_REGION")},
			&cli.BoolFlag{Name: "json", Usage: "print a JSON report instead of terminal output"},
			&cli.BoolFlag{Name: "verbose", Usage: "print logs of passing tests"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			results, err := readResults(cmd.String("results"))
			if err != nil {
				return err
			}

			var report *respbuilder.Builder
			factories := []runner.GathererFactory{func(runUuid string) runner.Gatherer {
				report = respbuilder.New(runUuid)
				return report
			}}
			if !cmd.Bool("json") {
				factories = append(factories, termgath.Factory(out, cmd.Bool("verbose")))
			}

			if url := cmd.String("nats-url"); url != "" {
				nc, err := nats.Connect(url)
				if err != nil {
					return fmt.Errorf("failed to connect to NATS: %w", err)
				}
				defer nc.Close()
				factories = append(factories, natsgath.Factory(nc, cmd.String("nats-subject")))
			}
			if queue := cmd.String("sqs-queue-url"); queue != "" {
				client, err := sqsgath.NewClient(ctx, cmd.String("aws-region"))
				if err != nil {
					return err
				}
				factories = append(factories, sqsgath.Factory(client, queue))
			}

			runUuid := runner.Replay(results, cmd.String("root"), runner.MultiGatherers(factories...))
			logger.Info("reported run", "run", runUuid, "tests", results.TestCount())

			if cmd.Bool("json") {
				return writeJSON(out, report.Response())
			}
			return nil
		},
	}
}

func readResults(path string) (api.SuiteResultMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return api.DecodeSuiteResultMap(data)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
