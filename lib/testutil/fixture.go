// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree creates files under root from a map of slash-separated
// relative paths to contents, creating parent directories as needed.
// Paths are written in sorted order so failures are reproducible.
//
//	testutil.WriteTree(t, dir, map[string]string{
//	    "Notes.app/Contents/Info.plist": plist,
//	})
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(files[path]), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}
