package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"coldsign-sol/pkg/logger"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	app := &cli.App{
		Name:    "coldsign",
		Usage:   "Offline Solana transaction decoder, analyzer and signer",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Description: `Parses, inspects and signs Solana transactions entirely offline.

No network access is ever performed: address lookup tables are resolved
from a local JSON snapshot, and fees are estimated from static policy.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"f"},
				Usage:   "Optional YAML config file",
				EnvVars: []string{"COLDSIGN_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			analyzeCommand(),
			signCommand(),
			verifyCommand(),
			keygenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}
