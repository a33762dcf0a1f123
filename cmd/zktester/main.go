package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/programme-lv/zktester/internal/logging"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "zktester",
		Usage: "correlate dual compiled artifacts and check test outcomes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("ZKTESTER_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			correlateCommand(out),
			verifyCommand(out),
			assertCommand(out),
			defaultsCommand(out),
			reportCommand(out),
		},
	}
}

func newLogger(cmd *cli.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}
	return logging.Default(level), nil
}
