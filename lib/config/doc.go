// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the server configuration.
//
// Configuration comes from at most one file, named by the --config flag
// or the APP_INTENTS_MCP_CONFIG environment variable. Without either,
// built-in defaults apply. Command-line flags are applied on top by the
// binary after loading; the file never overrides a flag.
//
// YAML, TOML and JSON (with comments) files are accepted. ${VAR} and
// ${VAR:-default} are expanded in path fields so a shared file can
// refer to ${HOME}.
package config
