// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

// RequireCommand returns the absolute path of name from PATH, or skips
// the test when it is not installed.
func RequireCommand(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

// WaitForFile polls path until its content equals want, failing the
// test with the last observed content after timeout.
func WaitForFile(t *testing.T, path, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout) //nolint:realclock test hang prevention
	var last string
	for {
		data, err := os.ReadFile(path)
		if err == nil {
			last = string(data)
			if last == want {
				return
			}
		}
		if time.Now().After(deadline) { //nolint:realclock test hang prevention
			t.Fatalf("%s: content %q after %v, want %q", path, last, timeout, want)
		}
		time.Sleep(10 * time.Millisecond) //nolint:realclock test polling
	}
}
