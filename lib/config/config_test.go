// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Framing != "line" {
		t.Errorf("framing = %q, want line", cfg.Framing)
	}
	if cfg.StaleAfter() != 5*time.Minute {
		t.Errorf("stale_after = %v, want 5m", cfg.StaleAfter())
	}
	if cfg.Timeout() != 0 {
		t.Errorf("timeout = %v, want 0", cfg.Timeout())
	}
	if cfg.Execution.MatchPolicy != "ranked" {
		t.Errorf("match_policy = %q, want ranked", cfg.Execution.MatchPolicy)
	}
}

func TestLoadWithoutFileExpandsHome(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	t.Setenv("HOME", "/Users/tester")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("source = %q, want empty", cfg.Source)
	}
	last := cfg.Discovery.Directories[len(cfg.Discovery.Directories)-1]
	if last != "/Users/tester/Applications" {
		t.Errorf("home directory not expanded: %q", last)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "server.yaml", "framing: header\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Framing != "header" || cfg.Source != path {
		t.Errorf("framing = %q, source = %q", cfg.Framing, cfg.Source)
	}
}

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "server.yaml", `
framing: header
log_level: debug
discovery:
  directories: ["${FIXTURE_ROOT}/Apps"]
  stale_after: 30s
execution:
  timeout: 2m
  match_policy: first
`},
		{"toml", "server.toml", `
framing = "header"
log_level = "debug"

[discovery]
directories = ["${FIXTURE_ROOT}/Apps"]
stale_after = "30s"

[execution]
timeout = "2m"
match_policy = "first"
`},
		{"jsonc", "server.jsonc", `{
  // Header framing for editors that speak LSP-style framing.
  "framing": "header",
  "log_level": "debug",
  "discovery": {"directories": ["${FIXTURE_ROOT}/Apps"], "stale_after": "30s",},
  /* runner */
  "execution": {"timeout": "2m", "match_policy": "first"},
}`},
	}

	t.Setenv("FIXTURE_ROOT", "/fixtures")
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, test.file, test.content))
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.Framing != "header" || cfg.LogLevel != "debug" {
				t.Errorf("framing = %q, log_level = %q", cfg.Framing, cfg.LogLevel)
			}
			if len(cfg.Discovery.Directories) != 1 || cfg.Discovery.Directories[0] != "/fixtures/Apps" {
				t.Errorf("directories = %v", cfg.Discovery.Directories)
			}
			if cfg.StaleAfter() != 30*time.Second || cfg.Timeout() != 2*time.Minute {
				t.Errorf("stale_after = %v, timeout = %v", cfg.StaleAfter(), cfg.Timeout())
			}
			if cfg.Execution.MatchPolicy != "first" {
				t.Errorf("match_policy = %q", cfg.Execution.MatchPolicy)
			}
			// Absent fields keep their defaults.
			if cfg.Execution.ShortcutsPath != "/usr/bin/shortcuts" {
				t.Errorf("shortcuts_path = %q", cfg.Execution.ShortcutsPath)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
	if _, err := LoadFile(writeConfig(t, "server.ini", "framing=line")); err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Errorf("unexpected error for .ini: %v", err)
	}
	if _, err := LoadFile(writeConfig(t, "server.yaml", "framing: [")); err == nil {
		t.Error("malformed yaml loaded")
	}
}

func TestExpandVarsDefault(t *testing.T) {
	t.Setenv("UNSET_FOR_TEST", "")
	got := expandVars("${UNSET_FOR_TEST:-/opt/apps}/x", map[string]string{})
	if got != "/opt/apps/x" {
		t.Errorf("expandVars = %q", got)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Framing = "auto"
	cfg.LogLevel = "loud"
	cfg.Discovery.Directories = nil
	cfg.Discovery.StaleAfter = "0s"
	cfg.Execution.Timeout = "soon"
	cfg.Execution.MatchPolicy = "fuzzy"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid config")
	}
	for _, fragment := range []string{"framing", "log_level", "discovery.directories", "stale_after", "execution.timeout", "match_policy"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %s", err, fragment)
		}
	}
}
