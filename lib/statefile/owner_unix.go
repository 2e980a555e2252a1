// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package statefile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ownerExists reports whether pid exists. EPERM means it exists but
// belongs to someone else.
func ownerExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
