// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"github.com/bradwindy/app-intents-mcp/lib/execution"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// protocolVersion is the MCP protocol version implemented by this
// server. It is returned from initialize whatever the client asks for;
// the client decides whether it can proceed.
const protocolVersion = "2024-11-05"

// serverName identifies this server in initialize responses.
const serverName = "app-intents-mcp"

// CodeUnknownTool is returned by tools/call for a tool name the server
// does not provide. It sits in the implementation-defined server error
// range, outside the reserved JSON-RPC codes.
const CodeUnknownTool = -32001

// intentScheme prefixes every resource URI.
const intentScheme = "intent://"

const mimeTypeJSON = "application/json"

// --- lifecycle ---

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

// serverCapabilities declares tools, resources and prompts, each with
// an empty capability object: no list-changed notifications and no
// resource subscriptions.
type serverCapabilities struct {
	Tools     struct{} `json:"tools"`
	Resources struct{} `json:"resources"`
	Prompts   struct{} `json:"prompts"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// clientInfo is read from initialize params for logging only.
type clientInfo struct {
	Name    string
	Version string
}

// --- tools ---

type toolsListResult struct {
	Tools []toolDescription `json:"tools"`
}

type toolDescription struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema inputSchema      `json:"inputSchema"`
	Annotations *toolAnnotations `json:"annotations,omitempty"`
}

// inputSchema is the JSON Schema subset the tools need: an object with
// typed, described properties.
type inputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

type schemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// toolAnnotations are behavioral hints. When nil the MCP defaults
// apply: not read-only, destructive, not idempotent, open world.
type toolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"`
}

// toolsCallResult is the result of tools/call. Content always has at
// least one text block. StructuredContent carries the same data as
// typed JSON for clients that use it. ErrorInfo is set with IsError
// when the failure has a known category.
type toolsCallResult struct {
	Content           []contentBlock `json:"content"`
	StructuredContent any            `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
	ErrorInfo         *errorInfo     `json:"errorInfo,omitempty"`
}

// errorInfo carries structured error metadata when IsError is true.
// Clients that do not understand it ignore the field.
type errorInfo struct {
	// Category is one of validation, not_found, transient, internal.
	Category string `json:"category"`

	// Retryable reports whether repeating the same call might succeed.
	Retryable bool `json:"retryable"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textContent(text string) []contentBlock {
	return []contentBlock{{Type: "text", Text: text}}
}

// refreshSummary is the structured result of refresh_intents.
type refreshSummary struct {
	Intents  int    `json:"intents"`
	Apps     int    `json:"apps"`
	Revision string `json:"revision"`
}

// runResult is the structured result of run_intent.
type runResult struct {
	IntentID string `json:"intentID"`
	execution.Outcome
}

// --- resources ---

type resourcesListResult struct {
	Resources []resourceDescription `json:"resources"`
}

// resourceDescription describes one browsable resource. IntentCount is
// the number of intents the resource currently holds.
type resourceDescription struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
	IntentCount int    `json:"intentCount"`
}

type resourcesReadResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// --- prompts ---

type promptsListResult struct {
	Prompts []promptDescription `json:"prompts"`
}

type promptDescription struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []promptArgument `json:"arguments,omitempty"`
}

type promptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type promptsGetResult struct {
	Description string          `json:"description"`
	Messages    []promptMessage `json:"messages"`
}

type promptMessage struct {
	Role    string       `json:"role"`
	Content contentBlock `json:"content"`
}

// emptyResult is the payload of initialized and ping.
var emptyResult = value.Object{}

func boolPtr(b bool) *bool { return &b }
