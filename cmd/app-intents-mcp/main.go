// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bradwindy/app-intents-mcp/cmd/app-intents-mcp/cli"
	"github.com/bradwindy/app-intents-mcp/cmd/app-intents-mcp/mcp"
	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/config"
	"github.com/bradwindy/app-intents-mcp/lib/execution"
	"github.com/bradwindy/app-intents-mcp/lib/framing"
	"github.com/bradwindy/app-intents-mcp/lib/scanner"
	"github.com/bradwindy/app-intents-mcp/lib/shortcuts"
	"github.com/bradwindy/app-intents-mcp/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "catalog" {
		return runCatalog(args[1:], os.Stdout)
	}
	return runServer(args)
}

// options holds the flags shared by the server and the catalog
// subcommand. Only flags the user set override the config file.
type options struct {
	configPath  string
	framing     string
	logLevel    string
	appDirs     []string
	shortcuts   string
	timeout     string
	matchPolicy string
	showVersion bool
	help        bool
}

func addConfigFlags(flagSet *pflag.FlagSet, opts *options) {
	flagSet.StringVar(&opts.configPath, "config", "", "configuration file (.yaml, .toml or .jsonc; default $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "minimum log level: debug, info, warn or error")
	flagSet.StringArrayVar(&opts.appDirs, "app-dir", nil, "application directory to scan (repeatable; replaces the configured list)")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
}

func newServerFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("app-intents-mcp", pflag.ContinueOnError)
	addConfigFlags(flagSet, opts)
	flagSet.StringVar(&opts.framing, "framing", "", "stdio framing: line (newline-delimited) or header (Content-Length)")
	flagSet.StringVar(&opts.shortcuts, "shortcuts", "", "path to the shortcuts command-line tool")
	flagSet.StringVar(&opts.timeout, "timeout", "", "maximum duration of one shortcut run, e.g. 30s (default: none)")
	flagSet.StringVar(&opts.matchPolicy, "match-policy", "", "how intents are matched to shortcuts: ranked or first")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print the version and exit")
	return flagSet
}

// loadConfig loads the config file and applies every flag the user set
// on top of it, then validates the result.
func loadConfig(flagSet *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	overrides := []struct {
		flag   string
		target *string
		value  string
	}{
		{"framing", &cfg.Framing, opts.framing},
		{"log-level", &cfg.LogLevel, opts.logLevel},
		{"shortcuts", &cfg.Execution.ShortcutsPath, opts.shortcuts},
		{"timeout", &cfg.Execution.Timeout, opts.timeout},
		{"match-policy", &cfg.Execution.MatchPolicy, opts.matchPolicy},
	}
	for _, override := range overrides {
		if flagSet.Lookup(override.flag) != nil && flagSet.Changed(override.flag) {
			*override.target = override.value
		}
	}
	if flagSet.Changed("app-dir") {
		cfg.Discovery.Directories = opts.appDirs
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// newCatalog builds the scanner-backed catalog described by cfg.
func newCatalog(cfg *config.Config, logger *slog.Logger) *catalog.Catalog {
	return catalog.New(
		scanner.New(cfg.Discovery.Directories, scanner.WithLogger(logger)),
		catalog.WithStaleAfter(cfg.StaleAfter()),
		catalog.WithLogger(logger),
	)
}

func runServer(args []string) error {
	var opts options
	flagSet := newServerFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if opts.help {
		printHelp(flagSet)
		return nil
	}
	if opts.showVersion {
		fmt.Printf("app-intents-mcp %s\n", version.Short())
		return nil
	}
	if flagSet.NArg() > 0 {
		return cli.Validation("unexpected argument: %s", flagSet.Arg(0)).
			WithHint("Run 'app-intents-mcp --help' for usage.")
	}

	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return err
	}
	level, _ := cli.ParseLevel(cfg.LogLevel)
	logger := cli.NewCommandLogger(level)
	strategy, _ := framing.ParseStrategy(cfg.Framing)
	policy, _ := execution.ParseMatchPolicy(cfg.Execution.MatchPolicy)

	actions := newCatalog(cfg, logger)
	runner := shortcuts.New(cfg.Execution.ShortcutsPath,
		shortcuts.WithTimeout(cfg.Timeout()),
		shortcuts.WithLogger(logger),
	)
	coordinator := execution.NewCoordinator(actions, runner,
		execution.WithPolicy(policy),
		execution.WithLogger(logger),
	)
	server := mcp.NewServer(actions, coordinator, mcp.WithLogger(logger))

	framer, err := framing.New(strategy, os.Stdin, os.Stdout, framing.Limits{})
	if err != nil {
		return err
	}

	logger.Info("app-intents-mcp starting",
		"version", version.Info(),
		"session", server.Session(),
		"framing", strategy,
		"config", cfg.Source,
		"directories", cfg.Discovery.Directories,
		"shortcuts", runner.Path(),
		"shortcuts_available", runner.Available(),
		"match_policy", policy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run blocks in a stdin read that a signal cannot interrupt, so the
	// signal is watched here and the process exits without waiting.
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, framer) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		logger.Info("shutting down on signal")
		return nil
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `app-intents-mcp serves the App Intents of installed applications to an
AI assistant over the Model Context Protocol on stdin/stdout.

Usage:
  app-intents-mcp [flags]
  app-intents-mcp catalog [flags] [QUERY]

Examples:
  # Serve MCP with Content-Length framing
  app-intents-mcp --framing header

  # Check what would be discovered, without an MCP client
  app-intents-mcp catalog reminder

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
