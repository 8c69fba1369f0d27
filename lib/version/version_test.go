// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesVersionAndCommit(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, Short()+" (") {
		t.Errorf("Info() = %q, want prefix %q", info, Short()+" (")
	}
	if !strings.Contains(info, Commit()) {
		t.Errorf("Info() = %q does not contain commit %q", info, Commit())
	}
}

func TestCommitPrefersLinkerValue(t *testing.T) {
	saved := GitCommit
	t.Cleanup(func() { GitCommit = saved })

	GitCommit = "abc1234"
	if got := Commit(); got != "abc1234" {
		t.Errorf("Commit() = %q, want the -ldflags value", got)
	}
	GitCommit = ""
	if got := Commit(); got == "" {
		t.Error("Commit() is empty without a linker value")
	}
}
