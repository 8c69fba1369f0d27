// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// app-intents-mcp is an MCP server that exposes the App Intents of the
// applications installed on a Mac to an AI assistant, and runs them
// through matching Shortcuts.
//
// With no arguments it serves MCP over stdin and stdout until the
// client closes the stream. Logs go to stderr only.
//
//	app-intents-mcp [--framing line|header] [--config FILE] [--app-dir DIR]...
//	app-intents-mcp catalog [--json] [--owner BUNDLE] [QUERY]
//	app-intents-mcp --version
//
// The catalog subcommand scans once and prints what the server would
// expose, for checking discovery without an MCP client.
//
// Configuration comes from an optional YAML, TOML or JSONC file named
// by --config or APP_INTENTS_MCP_CONFIG; flags override file values.
package main
