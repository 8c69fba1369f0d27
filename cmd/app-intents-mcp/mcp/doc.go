// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp implements the Model Context Protocol server that exposes
// the App Intents catalog to an AI assistant.
//
// The server speaks JSON-RPC 2.0 over a [framing.Framer] and is strictly
// sequential: [Server.Run] reads one message, handles it to completion,
// writes the response, and only then reads the next. Responses are
// therefore always in request order.
//
// Method surface:
//
//   - initialize, initialized, ping, and notifications/* (no response)
//   - tools/list and tools/call with five tools: list_intents,
//     search_intents, get_intent, run_intent, refresh_intents
//   - resources/list and resources/read over intent:// URIs, one root
//     resource plus one per owning application
//   - prompts/list and prompts/get with three prompt templates
//
// Errors come in two tiers. Malformed envelopes, unknown methods and
// bad arguments are JSON-RPC errors with the reserved codes; an unknown
// tool name uses [CodeUnknownTool]. Domain failures (an intent that
// does not exist, a run that failed) are successful responses whose
// tool result has isError set and carries an errorInfo category.
//
// Catalog-reading handlers refresh the catalog lazily, so the first
// request after the staleness window triggers a re-scan.
package mcp
