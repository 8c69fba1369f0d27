// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/jsonrpc"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// The catalog is browsable as resources: intent:// holds every action
// and intent://<bundle id> holds the actions of one application.

func ownerURI(bundleID string) string { return intentScheme + bundleID }

func (s *Server) handleResourcesList(ctx context.Context, _ value.Value) (any, *jsonrpc.ErrorInfo) {
	s.refresh(ctx)

	stats := s.catalog.Stats()
	owners := s.catalog.ListOwners()
	resources := make([]resourceDescription, 0, len(owners)+1)
	resources = append(resources, resourceDescription{
		URI:         intentScheme,
		Name:        "All App Intents",
		Description: fmt.Sprintf("Browse all discovered App Intents (%s)", countNoun(stats.Actions, "intent")),
		MIMEType:    mimeTypeJSON,
		IntentCount: stats.Actions,
	})
	for _, owner := range owners {
		resources = append(resources, resourceDescription{
			URI:         ownerURI(owner.BundleID),
			Name:        owner.BundleID,
			Description: fmt.Sprintf("App Intents from %s (%s)", owner.BundleID, countNoun(owner.Count, "intent")),
			MIMEType:    mimeTypeJSON,
			IntentCount: owner.Count,
		})
	}
	return resourcesListResult{Resources: resources}, nil
}

// handleResourcesRead returns the actions behind a resource URI as
// indented JSON. Only intent:// and the URI of an application that
// currently owns actions are readable.
func (s *Server) handleResourcesRead(ctx context.Context, params value.Value) (any, *jsonrpc.ErrorInfo) {
	object, errInfo := objectParams(params, "resources/read params")
	if errInfo != nil {
		return nil, errInfo
	}
	uri, errInfo := requiredString(object, "uri")
	if errInfo != nil {
		return nil, errInfo
	}
	bundleID, ok := strings.CutPrefix(uri, intentScheme)
	if !ok {
		return nil, invalidParams("Unknown resource: %s", uri)
	}
	s.refresh(ctx)

	var actions []catalog.Action
	if bundleID == "" {
		actions = s.catalog.Actions()
	} else {
		actions = s.catalog.ForOwner(bundleID)
		if len(actions) == 0 {
			return nil, invalidParams("Unknown resource: %s", uri)
		}
	}
	if actions == nil {
		actions = []catalog.Action{}
	}

	text, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInternalError, "encoding %s: %v", uri, err)
	}
	return resourcesReadResult{
		Contents: []resourceContent{{URI: uri, MIMEType: mimeTypeJSON, Text: string(text)}},
	}, nil
}
