// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bradwindy/app-intents-mcp/cmd/app-intents-mcp/cli"
	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/jsonrpc"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// tool is one entry of tools/list together with its handler. A handler
// returns InvalidParams for malformed arguments and a tool result for
// everything else, including domain failures.
type tool struct {
	description toolDescription
	call        func(ctx context.Context, arguments value.Object) (toolsCallResult, *jsonrpc.ErrorInfo)
}

// toolOrder is the order of tools/list.
var toolOrder = []string{"list_intents", "search_intents", "get_intent", "run_intent", "refresh_intents"}

var readOnly = &toolAnnotations{
	ReadOnlyHint:    boolPtr(true),
	DestructiveHint: boolPtr(false),
	IdempotentHint:  boolPtr(true),
	OpenWorldHint:   boolPtr(false),
}

func (s *Server) buildTools() map[string]*tool {
	return map[string]*tool{
		"list_intents": {
			description: toolDescription{
				Name:        "list_intents",
				Description: "List all discovered App Intents, optionally filtered by app",
				InputSchema: inputSchema{
					Type: "object",
					Properties: map[string]schemaProperty{
						"app_bundle_id": {Type: "string", Description: "Filter by app bundle ID (optional)"},
					},
				},
				Annotations: readOnly,
			},
			call: s.callListIntents,
		},
		"search_intents": {
			description: toolDescription{
				Name:        "search_intents",
				Description: "Search intents by name or description",
				InputSchema: inputSchema{
					Type: "object",
					Properties: map[string]schemaProperty{
						"query": {Type: "string", Description: "Search query"},
					},
					Required: []string{"query"},
				},
				Annotations: readOnly,
			},
			call: s.callSearchIntents,
		},
		"get_intent": {
			description: toolDescription{
				Name:        "get_intent",
				Description: "Get detailed info about a specific intent",
				InputSchema: inputSchema{
					Type: "object",
					Properties: map[string]schemaProperty{
						"intent_id": {Type: "string", Description: "The intent ID"},
					},
					Required: []string{"intent_id"},
				},
				Annotations: readOnly,
			},
			call: s.callGetIntent,
		},
		"run_intent": {
			description: toolDescription{
				Name:        "run_intent",
				Description: "Execute an App Intent with provided parameters",
				InputSchema: inputSchema{
					Type: "object",
					Properties: map[string]schemaProperty{
						"intent_id":  {Type: "string", Description: "The intent ID to execute"},
						"parameters": {Type: "object", Description: "Parameters to pass to the intent"},
					},
					Required: []string{"intent_id"},
				},
			},
			call: s.callRunIntent,
		},
		"refresh_intents": {
			description: toolDescription{
				Name:        "refresh_intents",
				Description: "Force re-scan of installed apps for intents",
				InputSchema: inputSchema{
					Type:       "object",
					Properties: map[string]schemaProperty{},
				},
				Annotations: &toolAnnotations{
					ReadOnlyHint:    boolPtr(true),
					DestructiveHint: boolPtr(false),
					IdempotentHint:  boolPtr(true),
					OpenWorldHint:   boolPtr(true),
				},
			},
			call: s.callRefreshIntents,
		},
	}
}

func (s *Server) handleToolsList(context.Context, value.Value) (any, *jsonrpc.ErrorInfo) {
	descriptions := make([]toolDescription, 0, len(toolOrder))
	for _, name := range toolOrder {
		descriptions = append(descriptions, s.tools[name].description)
	}
	return toolsListResult{Tools: descriptions}, nil
}

// handleToolsCall validates the envelope (params object, string name,
// known tool) before it looks at arguments.
func (s *Server) handleToolsCall(ctx context.Context, params value.Value) (any, *jsonrpc.ErrorInfo) {
	object, errInfo := objectParams(params, "tools/call params")
	if errInfo != nil {
		return nil, errInfo
	}
	name, errInfo := requiredString(object, "name")
	if errInfo != nil {
		return nil, errInfo
	}
	t, ok := s.tools[name]
	if !ok {
		return nil, jsonrpc.NewError(CodeUnknownTool, "Unknown tool: %s", name)
	}
	arguments, errInfo := objectParams(object["arguments"], "tools/call arguments")
	if errInfo != nil {
		return nil, errInfo
	}

	s.logger.Debug("calling tool", "tool", name)
	result, errInfo := t.call(ctx, arguments)
	if errInfo != nil {
		return nil, errInfo
	}
	return result, nil
}

// errorResult turns a tool failure into an isError result.
func errorResult(err error) toolsCallResult {
	return toolsCallResult{
		Content:   textContent(err.Error()),
		IsError:   true,
		ErrorInfo: classifyError(err),
	}
}

// classifyError extracts the category of a ToolError. Context errors
// are transient; anything else is internal.
func classifyError(err error) *errorInfo {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return &errorInfo{
			Category:  string(toolErr.Category),
			Retryable: toolErr.Category.Retryable(),
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &errorInfo{Category: string(cli.CategoryTransient), Retryable: true}
	}
	return &errorInfo{Category: string(cli.CategoryInternal), Retryable: false}
}

func (s *Server) callListIntents(ctx context.Context, arguments value.Object) (toolsCallResult, *jsonrpc.ErrorInfo) {
	bundleID, errInfo := optionalString(arguments, "app_bundle_id")
	if errInfo != nil {
		return toolsCallResult{}, errInfo
	}
	s.refresh(ctx)

	var actions []catalog.Action
	var heading string
	if bundleID != "" {
		actions = s.catalog.ForOwner(bundleID)
		if len(actions) == 0 {
			return toolsCallResult{Content: textContent(fmt.Sprintf("No intents found for app '%s'.", bundleID))}, nil
		}
		heading = fmt.Sprintf("Found %s from %s:", countNoun(len(actions), "intent"), bundleID)
	} else {
		actions = s.catalog.Actions()
		if len(actions) == 0 {
			return toolsCallResult{Content: textContent("No intents found.")}, nil
		}
		heading = fmt.Sprintf("Found %s:", countNoun(len(actions), "intent"))
	}
	return toolsCallResult{Content: textContent(heading + "\n\n" + formatSummaries(actions))}, nil
}

func (s *Server) callSearchIntents(ctx context.Context, arguments value.Object) (toolsCallResult, *jsonrpc.ErrorInfo) {
	query, errInfo := requiredString(arguments, "query")
	if errInfo != nil {
		return toolsCallResult{}, errInfo
	}
	s.refresh(ctx)

	matches := s.catalog.Search(query)
	if len(matches) == 0 {
		return toolsCallResult{Content: textContent(fmt.Sprintf("No intents match '%s'.", query))}, nil
	}
	heading := fmt.Sprintf("Found %s matching '%s':", countNoun(len(matches), "intent"), query)
	return toolsCallResult{Content: textContent(heading + "\n\n" + formatSummaries(matches))}, nil
}

func (s *Server) callGetIntent(ctx context.Context, arguments value.Object) (toolsCallResult, *jsonrpc.ErrorInfo) {
	id, errInfo := requiredString(arguments, "intent_id")
	if errInfo != nil {
		return toolsCallResult{}, errInfo
	}
	s.refresh(ctx)

	action, ok := s.catalog.Get(id)
	if !ok {
		return errorResult(cli.NotFound("Intent not found: %s", id).
			WithHint("Use search_intents or list_intents to find intent IDs.")), nil
	}
	return toolsCallResult{
		Content:           textContent(formatDetail(action)),
		StructuredContent: action,
	}, nil
}

func (s *Server) callRunIntent(ctx context.Context, arguments value.Object) (toolsCallResult, *jsonrpc.ErrorInfo) {
	id, errInfo := requiredString(arguments, "intent_id")
	if errInfo != nil {
		return toolsCallResult{}, errInfo
	}
	parameters, errInfo := objectParams(arguments["parameters"], "argument \"parameters\"")
	if errInfo != nil {
		return toolsCallResult{}, errInfo
	}
	s.refresh(ctx)

	outcome := s.executor.Execute(ctx, id, parameters)
	s.logger.Info("intent executed",
		"intent", id,
		"succeeded", outcome.Succeeded,
		"elapsed_seconds", outcome.ElapsedSeconds,
	)

	result := toolsCallResult{StructuredContent: runResult{IntentID: id, Outcome: outcome}}
	if outcome.Succeeded {
		output := outcome.Output
		if strings.TrimSpace(output) == "" {
			output = "(no output)"
		}
		result.Content = textContent(fmt.Sprintf("Intent '%s' completed in %.2fs.\n\n%s", id, outcome.ElapsedSeconds, output))
		return result, nil
	}
	result.IsError = true
	result.Content = textContent(fmt.Sprintf("Intent '%s' failed after %.2fs: %s", id, outcome.ElapsedSeconds, outcome.ErrorMessage))
	return result, nil
}

func (s *Server) callRefreshIntents(ctx context.Context, _ value.Object) (toolsCallResult, *jsonrpc.ErrorInfo) {
	if _, err := s.catalog.Refresh(ctx, true); err != nil {
		s.logger.Warn("forced refresh failed", "error", err)
		return errorResult(cli.Transient("Refreshing intents failed: %w", err)), nil
	}
	stats := s.catalog.Stats()
	summary := refreshSummary{
		Intents:  stats.Actions,
		Apps:     stats.Owners,
		Revision: stats.Revision.Short(),
	}
	text := fmt.Sprintf("Refreshed catalog: %s from %s (revision %s).",
		countNoun(summary.Intents, "intent"), countNoun(summary.Apps, "app"), summary.Revision)
	return toolsCallResult{Content: textContent(text), StructuredContent: summary}, nil
}

// formatSummaries renders one short entry per action.
func formatSummaries(actions []catalog.Action) string {
	var builder strings.Builder
	for i, action := range actions {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "- %s (%s)\n  App: %s\n", action.Name, action.ID, action.BundleID)
		if action.Description != "" {
			fmt.Fprintf(&builder, "  %s\n", action.Description)
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

// formatDetail renders everything known about one action.
func formatDetail(action catalog.Action) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s\n", action.Name)
	fmt.Fprintf(&builder, "ID: %s\n", action.ID)
	fmt.Fprintf(&builder, "App: %s\n", action.BundleID)
	if action.Description != "" {
		fmt.Fprintf(&builder, "Description: %s\n", action.Description)
	}
	fmt.Fprintf(&builder, "Returns result: %s\n", yesNo(action.ReturnsResult))
	if len(action.Parameters) == 0 {
		builder.WriteString("Parameters: none")
		return builder.String()
	}
	builder.WriteString("Parameters:")
	for _, parameter := range action.Parameters {
		requirement := "optional"
		if parameter.Required {
			requirement = "required"
		}
		fmt.Fprintf(&builder, "\n  - %s (%s, %s)", parameter.Name, parameter.Type, requirement)
		if parameter.Description != "" {
			fmt.Fprintf(&builder, ": %s", parameter.Description)
		}
	}
	return builder.String()
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
