// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package testutil

import (
	"errors"
	"syscall"
	"testing"
)

// RequireExited fails the test unless pid no longer exists (has exited
// and been reaped).
func RequireExited(t *testing.T, pid int) {
	t.Helper()
	if err := syscall.Kill(pid, 0); !errors.Is(err, syscall.ESRCH) {
		t.Fatalf("process %d still exists (kill 0: %v)", pid, err)
	}
}
