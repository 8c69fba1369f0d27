// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
)

// DefaultDirectories returns the standard macOS application
// directories, including the user's own.
func DefaultDirectories() []string {
	directories := []string{"/Applications", "/System/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		directories = append(directories, filepath.Join(home, "Applications"))
	}
	return directories
}

// Scanner finds application bundles under a set of directories and
// extracts their actions. It implements catalog.Scanner.
type Scanner struct {
	directories []string
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger for skipped bundles and scan summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New returns a Scanner over directories, or [DefaultDirectories] when
// none are given.
func New(directories []string, options ...Option) *Scanner {
	if len(directories) == 0 {
		directories = DefaultDirectories()
	}
	s := &Scanner{
		directories: directories,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Directories returns the directories the scanner walks.
func (s *Scanner) Directories() []string { return s.directories }

// Scan walks every directory in order and returns the actions of each
// bundle found, in walk order. Bundles are not descended into, and
// hidden entries are skipped. Missing directories are ignored. The
// only error is cancellation of ctx.
func (s *Scanner) Scan(ctx context.Context) ([]catalog.Action, error) {
	var actions []catalog.Action
	bundles := 0
	for _, root := range s.directories {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				if path == root && errors.Is(walkErr, fs.ErrNotExist) {
					s.logger.Debug("application directory missing", "directory", root)
				} else {
					s.logger.Debug("skipping unreadable path", "path", path, "error", walkErr)
				}
				return nil
			}
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !isBundle(path, entry) {
				return nil
			}

			bundles++
			found, err := ScanBundle(path)
			if err != nil {
				s.logger.Debug("skipping bundle", "bundle", path, "error", err)
			}
			actions = append(actions, found...)
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	s.logger.Debug("scan complete", "bundles", bundles, "actions", len(actions))
	return actions, nil
}

// isBundle reports whether entry is an application bundle: a directory
// named *.app, or a symlink named *.app that resolves to one.
func isBundle(path string, entry fs.DirEntry) bool {
	if filepath.Ext(entry.Name()) != ".app" {
		return false
	}
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
