// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import "context"

// Action is one automatable action exposed by an application.
type Action struct {
	// ID is globally unique and is the catalog key.
	ID string `json:"id"`

	// BundleID identifies the owning application.
	BundleID string `json:"appBundleID"`

	// Name is the human-readable display name, also used to match
	// the action against runnable shortcuts.
	Name string `json:"name"`

	Description   string      `json:"description,omitempty"`
	Parameters    []Parameter `json:"parameters"`
	ReturnsResult bool        `json:"returnsResult"`
}

// Parameter describes one input of an Action. Type is a free-form tag
// taken from the application's manifest.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Scanner produces raw action records. Records may repeat an ID; the
// catalog keeps the first.
type Scanner interface {
	Scan(ctx context.Context) ([]Action, error)
}

// ScannerFunc adapts a function to the Scanner interface.
type ScannerFunc func(ctx context.Context) ([]Action, error)

// Scan calls f.
func (f ScannerFunc) Scan(ctx context.Context) ([]Action, error) { return f(ctx) }

// OwnerCount is one row of [Catalog.ListOwners].
type OwnerCount struct {
	BundleID string `json:"bundleID"`
	Count    int    `json:"count"`
}
