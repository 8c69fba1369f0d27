// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package shortcuts

import "os/exec"

// configureProcessGroup is a no-op where process groups are not
// available; cancellation kills only the direct child.
func configureProcessGroup(*exec.Cmd) {}
