// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bradwindy/app-intents-mcp/cmd/app-intents-mcp/cli"
	"github.com/bradwindy/app-intents-mcp/lib/catalog"
)

const defaultTableWidth = 120

// catalogOptions are the flags of the catalog subcommand.
type catalogOptions struct {
	options
	json    bool
	owner   string
	noColor bool
	width   int
}

func runCatalog(args []string, stdout io.Writer) error {
	var opts catalogOptions
	flagSet := pflag.NewFlagSet("app-intents-mcp catalog", pflag.ContinueOnError)
	addConfigFlags(flagSet, &opts.options)
	flagSet.BoolVar(&opts.json, "json", false, "print the catalog as JSON")
	flagSet.StringVar(&opts.owner, "owner", "", "only show intents of this app bundle ID")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable colored output (also honors NO_COLOR)")
	flagSet.IntVar(&opts.width, "width", 0, "table width in columns (default: terminal width)")
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
	if flagSet.NArg() > 1 {
		return cli.Validation("catalog takes at most one query, got %d arguments", flagSet.NArg())
	}

	cfg, err := loadConfig(flagSet, &opts.options)
	if err != nil {
		return err
	}
	level, _ := cli.ParseLevel(cfg.LogLevel)
	logger := cli.NewCommandLogger(level)

	actions := newCatalog(cfg, logger)
	if _, err := actions.Refresh(context.Background(), true); err != nil {
		return cli.Transient("scanning applications: %w", err)
	}
	selected := selectActions(actions, flagSet.Arg(0), opts.owner)

	terminal := isTerminal(stdout)
	colored := terminal && !opts.noColor && os.Getenv("NO_COLOR") == ""

	if opts.json {
		return writeCatalogJSON(stdout, selected, colored)
	}

	profile := termenv.Ascii
	if colored {
		profile = termenv.ANSI256
	}
	width := opts.width
	if width <= 0 {
		width = terminalWidth(stdout, terminal)
	}
	logger.Debug("rendering catalog", "actions", len(selected), "width", width, "profile", profile)
	_, err = io.WriteString(stdout, renderCatalogTable(selected, actions.Stats(), width, profile))
	return err
}

// selectActions applies the optional query and owner filters.
func selectActions(actions *catalog.Catalog, query, owner string) []catalog.Action {
	var selected []catalog.Action
	if query != "" {
		selected = actions.Search(query)
	} else {
		selected = actions.Actions()
	}
	if owner == "" {
		return selected
	}
	filtered := selected[:0]
	for _, action := range selected {
		if action.BundleID == owner {
			filtered = append(filtered, action)
		}
	}
	return filtered
}

func writeCatalogJSON(w io.Writer, actions []catalog.Action, colored bool) error {
	if actions == nil {
		actions = []catalog.Action{}
	}
	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return cli.Internal("encoding catalog: %w", err)
	}
	data = append(data, '\n')
	if colored {
		return quick.Highlight(w, string(data), "json", "terminal256", "monokai")
	}
	_, err = w.Write(data)
	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func terminalWidth(w io.Writer, terminal bool) int {
	if file, ok := w.(*os.File); ok && terminal {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTableWidth
}

// column bounds, in terminal cells.
const (
	minIDWidth   = 16
	maxIDWidth   = 56
	maxNameWidth = 36
	maxAppWidth  = 36
	paramsWidth  = 6
	columnGap    = 2
)

// renderCatalogTable renders actions as an aligned table followed by a
// summary line. Cells wider than their column are truncated with an
// ellipsis; the ID column shrinks first when the table exceeds width.
func renderCatalogTable(actions []catalog.Action, stats catalog.Stats, width int, profile termenv.Profile) string {
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	headerStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	idStyle := renderer.NewStyle().Foreground(lipgloss.Color("245"))
	appStyle := renderer.NewStyle().Foreground(lipgloss.Color("108"))
	summaryStyle := renderer.NewStyle().Faint(true)

	summary := fmt.Sprintf("%d of %d intents from %d apps (revision %s)",
		len(actions), stats.Actions, stats.Owners, stats.Revision.Short())
	if len(actions) == 0 {
		return "No intents found.\n" + summaryStyle.Render(summary) + "\n"
	}

	idWidth, nameWidth, appWidth := len("ID"), len("NAME"), len("APP")
	for _, action := range actions {
		idWidth = max(idWidth, ansi.StringWidth(action.ID))
		nameWidth = max(nameWidth, ansi.StringWidth(action.Name))
		appWidth = max(appWidth, ansi.StringWidth(action.BundleID))
	}
	idWidth = min(idWidth, maxIDWidth)
	nameWidth = min(nameWidth, maxNameWidth)
	appWidth = min(appWidth, maxAppWidth)
	if overflow := idWidth + nameWidth + appWidth + paramsWidth + 3*columnGap - width; overflow > 0 {
		idWidth = max(minIDWidth, idWidth-overflow)
	}

	var builder strings.Builder
	row := func(id, name, app, params string, styles [3]lipgloss.Style) {
		gap := strings.Repeat(" ", columnGap)
		builder.WriteString(styles[0].Render(cell(id, idWidth)))
		builder.WriteString(gap)
		builder.WriteString(styles[1].Render(cell(name, nameWidth)))
		builder.WriteString(gap)
		builder.WriteString(styles[2].Render(cell(app, appWidth)))
		builder.WriteString(gap)
		builder.WriteString(params)
		builder.WriteString("\n")
	}

	row("ID", "NAME", "APP", headerStyle.Render("PARAMS"), [3]lipgloss.Style{headerStyle, headerStyle, headerStyle})
	plain := renderer.NewStyle()
	for _, action := range actions {
		row(action.ID, action.Name, action.BundleID, strconv.Itoa(len(action.Parameters)),
			[3]lipgloss.Style{idStyle, plain, appStyle})
	}
	builder.WriteString("\n")
	builder.WriteString(summaryStyle.Render(summary))
	builder.WriteString("\n")
	return builder.String()
}

// cell truncates s to width cells and pads it to exactly width.
func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(0, width-ansi.StringWidth(s)))
}
