// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information.
//
// [GitCommit] may be injected at build time via -ldflags; otherwise
// [Commit] reads the VCS stamp from the binary's build info:
//
//	go build -ldflags "-X github.com/bradwindy/app-intents-mcp/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// [Version] is set manually for releases.
package version
