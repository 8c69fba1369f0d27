// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"howett.net/plist"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// ErrNoBundleIdentifier is returned for a bundle whose Info.plist has
// no CFBundleIdentifier.
var ErrNoBundleIdentifier = errors.New("Info.plist has no CFBundleIdentifier")

const (
	infoPlistPath = "Contents/Info.plist"
	manifestPath  = "Contents/Resources/Metadata.appintents/extract.actionsdata"
)

// bundleInfo is the subset of Info.plist the scanner reads. Binary and
// XML property lists are both accepted.
type bundleInfo struct {
	Identifier       string   `plist:"CFBundleIdentifier"`
	Name             string   `plist:"CFBundleName"`
	IntentsSupported []string `plist:"INIntentsSupported"`
}

// ScanBundle returns the actions declared by the application bundle at
// path. Actions from the App Intents manifest come first, followed by
// legacy SiriKit intents. When the manifest is unreadable the legacy
// intents are still returned alongside the error.
func ScanBundle(path string) ([]catalog.Action, error) {
	data, err := os.ReadFile(filepath.Join(path, infoPlistPath))
	if err != nil {
		return nil, err
	}
	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding Info.plist: %w", err)
	}
	if info.Identifier == "" {
		return nil, ErrNoBundleIdentifier
	}
	appName := info.Name
	if appName == "" {
		appName = strings.TrimSuffix(filepath.Base(path), ".app")
	}

	var actions []catalog.Action
	var manifestErr error
	manifest, err := os.ReadFile(filepath.Join(path, manifestPath))
	switch {
	case err == nil:
		actions, manifestErr = parseManifest(manifest, info.Identifier, appName)
	case !errors.Is(err, os.ErrNotExist):
		manifestErr = err
	}
	if manifestErr != nil {
		manifestErr = fmt.Errorf("reading App Intents manifest: %w", manifestErr)
	}

	for _, intentName := range info.IntentsSupported {
		actions = append(actions, catalog.Action{
			ID:          info.Identifier + "." + intentName,
			BundleID:    info.Identifier,
			Name:        legacyDisplayName(intentName),
			Description: "Legacy SiriKit intent from " + appName,
			Parameters:  []catalog.Parameter{},
		})
	}
	return actions, manifestErr
}

// parseManifest reads the "actions" member of extract.actionsdata. It
// is an array of action objects in older manifests and an object keyed
// by identifier in newer ones; keyed actions are visited in key order.
// Actions without an identifier or a title are skipped.
func parseManifest(data []byte, bundleID, appName string) ([]catalog.Action, error) {
	root, err := value.Parse(data)
	if err != nil {
		return nil, err
	}
	object, ok := value.AsObject(root)
	if !ok {
		return nil, fmt.Errorf("manifest is a JSON %s, not an object", value.KindOf(root))
	}

	var records []value.Object
	var keys []string
	entries, _ := object.Get("actions")
	switch actions := entries.(type) {
	case value.Array:
		for _, entry := range actions {
			if record, ok := value.AsObject(entry); ok {
				records = append(records, record)
				keys = append(keys, "")
			}
		}
	case value.Object:
		names := actions.Keys()
		sort.Strings(names)
		for _, name := range names {
			if record, ok := value.AsObject(actions[name]); ok {
				records = append(records, record)
				keys = append(keys, name)
			}
		}
	}

	var parsed []catalog.Action
	for i, record := range records {
		identifier := stringAt(record, "identifier")
		if identifier == "" {
			identifier = keys[i]
		}
		title := stringAt(record, "title", "key")
		if identifier == "" || title == "" {
			continue
		}
		description := stringAt(record, "descriptionMetadata", "descriptionText", "key")
		if description == "" {
			description = "App Intent from " + appName
		}
		returnsValue, _ := value.AsBool(lookup(record, "returnsValue"))
		parsed = append(parsed, catalog.Action{
			ID:            identifier,
			BundleID:      bundleID,
			Name:          title,
			Description:   description,
			Parameters:    parseParameters(record),
			ReturnsResult: returnsValue,
		})
	}
	return parsed, nil
}

func parseParameters(record value.Object) []catalog.Parameter {
	parameters := []catalog.Parameter{}
	entries, _ := value.AsArray(lookup(record, "parameters"))
	for _, entry := range entries {
		parameter, ok := value.AsObject(entry)
		if !ok {
			continue
		}
		name := stringAt(parameter, "name")
		if name == "" {
			continue
		}
		optional, _ := value.AsBool(lookup(parameter, "isOptional"))
		parameters = append(parameters, catalog.Parameter{
			Name:     name,
			Type:     valueType(lookup(parameter, "valueType")),
			Required: !optional,
		})
	}
	return parameters
}

// valueType reads a parameter's type tag: either a plain string or an
// object naming the type under "typeName" or "type".
func valueType(v value.Value) string {
	if s, ok := value.AsString(v); ok && s != "" {
		return s
	}
	if object, ok := value.AsObject(v); ok {
		for _, key := range []string{"typeName", "type"} {
			if s := stringAt(object, key); s != "" {
				return s
			}
		}
	}
	return "unknown"
}

// lookup follows a path of object keys, returning nil when any step is
// missing or not an object.
func lookup(object value.Object, path ...string) value.Value {
	var current value.Value = object
	for _, key := range path {
		next, ok := value.AsObject(current)
		if !ok {
			return nil
		}
		if current, ok = next.Get(key); !ok {
			return nil
		}
	}
	return current
}

func stringAt(object value.Object, path ...string) string {
	s, _ := value.AsString(lookup(object, path...))
	return s
}
