// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the environment variable consulted when no
// --config flag is given.
const EnvironmentVariable = "APP_INTENTS_MCP_CONFIG"

// Config is the configuration of the app-intents-mcp server.
type Config struct {
	// Framing selects the stdio framing strategy: "line" or "header".
	Framing string `yaml:"framing" toml:"framing"`

	// LogLevel is the minimum level written to stderr: debug, info,
	// warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Discovery configures the application scanner and catalog cache.
	Discovery DiscoveryConfig `yaml:"discovery" toml:"discovery"`

	// Execution configures the shortcuts runner.
	Execution ExecutionConfig `yaml:"execution" toml:"execution"`

	// Source is the path the configuration was loaded from, empty when
	// only defaults are in effect.
	Source string `yaml:"-" toml:"-"`
}

// DiscoveryConfig configures where actions are discovered and how long
// a scan stays fresh.
type DiscoveryConfig struct {
	// Directories are searched recursively for application bundles.
	// Default: /Applications, /System/Applications, ${HOME}/Applications
	Directories []string `yaml:"directories" toml:"directories"`

	// StaleAfter is how long a populated catalog is served before the
	// next request triggers a re-scan. Default: 5m
	StaleAfter string `yaml:"stale_after" toml:"stale_after"`
}

// ExecutionConfig configures how matched actions are run.
type ExecutionConfig struct {
	// ShortcutsPath is the shortcuts command-line tool.
	// Default: /usr/bin/shortcuts
	ShortcutsPath string `yaml:"shortcuts_path" toml:"shortcuts_path"`

	// Timeout bounds a single shortcut run. Empty means no timeout.
	Timeout string `yaml:"timeout" toml:"timeout"`

	// MatchPolicy selects how an action is matched to a shortcut:
	// "ranked" (exact, then prefix, then substring) or "first" (first
	// substring match). Default: ranked
	MatchPolicy string `yaml:"match_policy" toml:"match_policy"`
}

// Default returns the configuration used when no file is given, and
// the base that a file is merged into.
func Default() *Config {
	return &Config{
		Framing:  "line",
		LogLevel: "info",
		Discovery: DiscoveryConfig{
			Directories: []string{
				"/Applications",
				"/System/Applications",
				"${HOME}/Applications",
			},
			StaleAfter: "5m",
		},
		Execution: ExecutionConfig{
			ShortcutsPath: "/usr/bin/shortcuts",
			MatchPolicy:   "ranked",
		},
	}
}

// Load loads the file at path, or the file named by the
// APP_INTENTS_MCP_CONFIG environment variable when path is empty. With
// neither set, the defaults are returned. Variables are expanded in
// both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file. The format is
// chosen by extension: .yaml/.yml, .toml, or .json/.jsonc (comments
// and trailing commas allowed). Fields absent from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.Source = path
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".toml":
		_, err := toml.Decode(string(data), c)
		return err
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the yaml tags serve both.
		return yaml.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml, .toml, .json or .jsonc)", filepath.Ext(path))
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": homeDirectory(),
	}
	for i, directory := range c.Discovery.Directories {
		c.Discovery.Directories[i] = expandVars(directory, vars)
	}
	c.Execution.ShortcutsPath = expandVars(c.Execution.ShortcutsPath, vars)
}

func homeDirectory() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration, reporting every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{"line", "header"}, c.Framing) {
		errs = append(errs, fmt.Errorf("framing must be one of: line, header (got %q)", c.Framing))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error (got %q)", c.LogLevel))
	}
	if len(c.Discovery.Directories) == 0 {
		errs = append(errs, errors.New("discovery.directories must name at least one directory"))
	}
	if staleAfter, err := time.ParseDuration(c.Discovery.StaleAfter); err != nil {
		errs = append(errs, fmt.Errorf("discovery.stale_after: %w", err))
	} else if staleAfter <= 0 {
		errs = append(errs, fmt.Errorf("discovery.stale_after must be positive (got %s)", c.Discovery.StaleAfter))
	}
	if c.Execution.ShortcutsPath == "" {
		errs = append(errs, errors.New("execution.shortcuts_path is required"))
	}
	if c.Execution.Timeout != "" {
		if timeout, err := time.ParseDuration(c.Execution.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("execution.timeout: %w", err))
		} else if timeout < 0 {
			errs = append(errs, fmt.Errorf("execution.timeout must not be negative (got %s)", c.Execution.Timeout))
		}
	}
	if !slices.Contains([]string{"ranked", "first"}, c.Execution.MatchPolicy) {
		errs = append(errs, fmt.Errorf("execution.match_policy must be one of: ranked, first (got %q)", c.Execution.MatchPolicy))
	}

	return errors.Join(errs...)
}

// StaleAfter returns the parsed staleness window. Call after Validate.
func (c *Config) StaleAfter() time.Duration {
	d, _ := time.ParseDuration(c.Discovery.StaleAfter)
	return d
}

// Timeout returns the parsed execution timeout, zero when unset. Call
// after Validate.
func (c *Config) Timeout() time.Duration {
	if c.Execution.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Execution.Timeout)
	return d
}
