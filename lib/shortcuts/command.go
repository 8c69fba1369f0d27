// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shortcuts

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// CommandRunner runs an external command to completion and returns
// its captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecCommandRunner runs commands on the local host.
type ExecCommandRunner struct{}

// waitDelay bounds how long Wait blocks on output pipes after the
// process group has been killed.
const waitDelay = 2 * time.Second

// Run starts name in its own process group. Cancelling ctx kills the
// group. The error is an *exec.ExitError when the command ran and
// exited non-zero.
func (ExecCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
