// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bradwindy/app-intents-mcp/lib/jsonrpc"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// topOwnersInPrompt bounds the application list interpolated into
// discover_capabilities.
const topOwnersInPrompt = 10

var prompts = []promptDescription{
	{
		Name:        "discover_capabilities",
		Description: "What can I automate on this Mac?",
	},
	{
		Name:        "intent_help",
		Description: "Get usage help for a specific intent",
		Arguments: []promptArgument{
			{Name: "intent_id", Description: "The intent to get help for", Required: true},
		},
	},
	{
		Name:        "workflow_builder",
		Description: "Build a multi-step automation using available intents",
	},
}

func (s *Server) handlePromptsList(context.Context, value.Value) (any, *jsonrpc.ErrorInfo) {
	return promptsListResult{Prompts: prompts}, nil
}

func (s *Server) handlePromptsGet(ctx context.Context, params value.Value) (any, *jsonrpc.ErrorInfo) {
	object, errInfo := objectParams(params, "prompts/get params")
	if errInfo != nil {
		return nil, errInfo
	}
	name, errInfo := requiredString(object, "name")
	if errInfo != nil {
		return nil, errInfo
	}
	arguments, errInfo := objectParams(object["arguments"], "prompt arguments")
	if errInfo != nil {
		return nil, errInfo
	}

	var text string
	switch name {
	case "discover_capabilities":
		s.refresh(ctx)
		text = s.discoverCapabilitiesText()
	case "intent_help":
		id, errInfo := requiredString(arguments, "intent_id")
		if errInfo != nil {
			return nil, errInfo
		}
		s.refresh(ctx)
		action, ok := s.catalog.Get(id)
		if !ok {
			return nil, invalidParams("Intent not found: %s", id)
		}
		text = fmt.Sprintf("Explain how to use the App Intent '%s' (ID %s) from %s.\n\n"+
			"%s\n\n"+
			"Describe what it does and what each parameter means, then show an example "+
			"run_intent call with intent_id %q and realistic parameters.",
			action.Name, action.ID, action.BundleID, formatDetail(action), action.ID)
	case "workflow_builder":
		s.refresh(ctx)
		stats := s.catalog.Stats()
		text = fmt.Sprintf("Help me build a multi-step automation on this Mac using the available "+
			"App Intents (%s across %s).\n\n"+
			"Start by asking what I want to accomplish. Then use search_intents to find the intents "+
			"each step needs, get_intent to check their parameters, and propose an ordered sequence "+
			"of run_intent calls, noting which outputs feed later steps.",
			countNoun(stats.Actions, "intent"), countNoun(stats.Owners, "app"))
	default:
		return nil, invalidParams("Unknown prompt: %s", name)
	}

	description := ""
	for _, prompt := range prompts {
		if prompt.Name == name {
			description = prompt.Description
		}
	}
	return promptsGetResult{
		Description: description,
		Messages: []promptMessage{
			{Role: "user", Content: contentBlock{Type: "text", Text: text}},
		},
	}, nil
}

func (s *Server) discoverCapabilitiesText() string {
	stats := s.catalog.Stats()
	var builder strings.Builder
	builder.WriteString("What can I automate on this Mac?\n\n")
	if stats.Actions == 0 {
		builder.WriteString("No App Intents have been discovered yet. Suggest running refresh_intents, " +
			"and explain which kinds of apps usually expose intents.")
		return builder.String()
	}
	fmt.Fprintf(&builder, "There are %s available from %s.", countNoun(stats.Actions, "App Intent"), countNoun(stats.Owners, "app"))
	owners := s.catalog.ListOwners()
	if len(owners) > topOwnersInPrompt {
		owners = owners[:topOwnersInPrompt]
	}
	builder.WriteString(" The apps with the most intents are:\n")
	for _, owner := range owners {
		fmt.Fprintf(&builder, "- %s (%s)\n", owner.BundleID, countNoun(owner.Count, "intent"))
	}
	builder.WriteString("\nUse list_intents and search_intents to explore them, then summarize the kinds " +
		"of tasks I can automate, grouped by app, with one concrete example each.")
	return builder.String()
}
