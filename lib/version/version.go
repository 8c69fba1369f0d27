// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Version is the semantic version reported by --version and in the
// serverInfo of the initialize handshake.
var Version = "1.0.0"

// GitCommit is the short git SHA of the build. Set via -ldflags; when
// left empty it is read from the VCS stamp the go command embeds.
var GitCommit = ""

// Short returns the version number alone.
func Short() string {
	return Version
}

// Info returns the version with its build provenance, for the startup
// log line.
func Info() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit(), runtime.Version())
}

// Commit returns GitCommit, falling back to the embedded vcs.revision
// (shortened, with a "+dirty" suffix for modified trees) and finally to
// "unknown".
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	return embeddedCommit()
}

var embeddedCommit = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "+dirty"
	}
	return revision
})
