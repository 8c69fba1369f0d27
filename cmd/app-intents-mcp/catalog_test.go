// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/config"
	"github.com/bradwindy/app-intents-mcp/lib/testutil"
)

const notesPlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.apple.Notes</string>
	<key>CFBundleName</key>
	<string>Notes</string>
	<key>INIntentsSupported</key>
	<array>
		<string>SearchNotesIntent</string>
	</array>
</dict>
</plist>
`

const remindersPlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.apple.reminders</string>
</dict>
</plist>
`

const remindersManifest = `{"actions": [
  {"identifier": "CreateReminderIntent", "title": {"key": "Create Reminder"},
   "parameters": [{"name": "title", "valueType": "String"}]}
]}`

func writeApplications(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"Notes.app/Contents/Info.plist":     notesPlist,
		"Reminders.app/Contents/Info.plist": remindersPlist,
		"Reminders.app/Contents/Resources/Metadata.appintents/extract.actionsdata": remindersManifest,
	})
	return root
}

func TestCatalogTable(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	var stdout bytes.Buffer
	if err := runCatalog([]string{"--app-dir", writeApplications(t), "--width", "100"}, &stdout); err != nil {
		t.Fatalf("runCatalog: %v", err)
	}
	output := stdout.String()
	if strings.Contains(output, "\x1b[") {
		t.Errorf("output to a non-terminal contains escape sequences: %q", output)
	}
	for _, want := range []string{"ID", "NAME", "APP", "PARAMS", "CreateReminderIntent", "Create Reminder", "com.apple.reminders", "Search Notes", "2 of 2 intents from 2 apps"} {
		if !strings.Contains(output, want) {
			t.Errorf("output lacks %q:\n%s", want, output)
		}
	}
}

func TestCatalogQueryAndOwnerFilters(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	root := writeApplications(t)

	var stdout bytes.Buffer
	if err := runCatalog([]string{"--app-dir", root, "--json", "REMINDER"}, &stdout); err != nil {
		t.Fatalf("runCatalog: %v", err)
	}
	var actions []catalog.Action
	if err := json.Unmarshal(stdout.Bytes(), &actions); err != nil {
		t.Fatalf("--json output is not JSON: %v\n%s", err, stdout.String())
	}
	if len(actions) != 1 || actions[0].ID != "CreateReminderIntent" {
		t.Errorf("query results = %+v", actions)
	}

	stdout.Reset()
	if err := runCatalog([]string{"--app-dir", root, "--json", "--owner", "com.apple.Notes"}, &stdout); err != nil {
		t.Fatalf("runCatalog: %v", err)
	}
	if err := json.Unmarshal(stdout.Bytes(), &actions); err != nil {
		t.Fatal(err)
	}
	if len(actions) != 1 || actions[0].ID != "com.apple.Notes.SearchNotesIntent" {
		t.Errorf("owner results = %+v", actions)
	}

	stdout.Reset()
	if err := runCatalog([]string{"--app-dir", root, "--json", "--owner", "com.example.none"}, &stdout); err != nil {
		t.Fatalf("runCatalog: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "[]" {
		t.Errorf("empty selection = %q, want []", stdout.String())
	}
}

func TestCatalogRejectsExtraArguments(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	if err := runCatalog([]string{"one", "two"}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for two queries")
	}
}

func TestRenderCatalogTableTruncatesToWidth(t *testing.T) {
	actions := []catalog.Action{
		{
			ID:         "com.example.very.long.bundle.identifier.with.many.segments.CreateSomethingIntent",
			BundleID:   "com.example.very.long.bundle.identifier",
			Name:       "Create Something With A Remarkably Long Display Name",
			Parameters: []catalog.Parameter{{Name: "a"}, {Name: "b"}},
		},
	}
	output := renderCatalogTable(actions, catalog.Stats{Actions: 1, Owners: 1}, 80, termenv.Ascii)

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[1], "com.example.ver…  ") {
		t.Errorf("ID column did not shrink to its minimum: %q", lines[1])
	}
	if strings.Contains(lines[1], "Display Name") {
		t.Errorf("name cell was not truncated: %q", lines[1])
	}
	if width := ansi.StringWidth(lines[0]); width != ansi.StringWidth(lines[1])+len("PARAMS")-1 {
		t.Errorf("header is %d cells, row is %d", width, ansi.StringWidth(lines[1]))
	}
	if !strings.HasSuffix(lines[1], "2") {
		t.Errorf("parameter count missing: %q", lines[1])
	}
	if lines[3] != "1 of 1 intents from 1 apps (revision 000000000000)" {
		t.Errorf("summary = %q", lines[3])
	}
}

func TestRenderCatalogTableEmpty(t *testing.T) {
	output := renderCatalogTable(nil, catalog.Stats{}, 80, termenv.Ascii)
	if !strings.HasPrefix(output, "No intents found.\n") {
		t.Errorf("output = %q", output)
	}
}

func TestColoredTableUsesEscapes(t *testing.T) {
	actions := []catalog.Action{{ID: "a.b.Create", BundleID: "a.b", Name: "Create Reminder"}}
	output := renderCatalogTable(actions, catalog.Stats{Actions: 1, Owners: 1}, 80, termenv.ANSI256)
	if !strings.Contains(output, "\x1b[") {
		t.Errorf("ANSI256 output has no escape sequences: %q", output)
	}
	if plain := ansi.Strip(output); !strings.Contains(plain, "Create Reminder") {
		t.Errorf("stripped output = %q", plain)
	}
}
