// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix && !linux

package stdstream

import "golang.org/x/sys/unix"

// Not every unix has dup3, so the flag is set in a second step.
func installCloseOnExec(target, slot int) error {
	if err := unix.Dup2(target, slot); err != nil {
		return err
	}
	_, err := unix.FcntlInt(uintptr(slot), unix.F_SETFD, unix.FD_CLOEXEC)
	return err
}
