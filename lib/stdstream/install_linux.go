// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package stdstream

import "golang.org/x/sys/unix"

func installCloseOnExec(target, slot int) error {
	return unix.Dup3(target, slot, unix.O_CLOEXEC)
}
