// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package stdstream

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Duplicate returns a new descriptor referring to the same open file
// description as stream. The duplicate is close-on-exec and is named
// after the original with a "-original" suffix. The original's offset
// and flags are untouched.
func Duplicate(stream *os.File) (*os.File, error) {
	fd, err := unix.FcntlInt(stream.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("duplicating %s (fd %d): %w", stream.Name(), stream.Fd(), err)
	}
	return os.NewFile(uintptr(fd), stream.Name()+"-original"), nil
}

// Install repoints slot's descriptor number at target. After Install
// returns, every write to slot's descriptor goes wherever target goes.
// Slots 0 through 2 stay inheritable, since exec hands them to children
// explicitly. Any higher slot becomes close-on-exec: otherwise every
// later child, including the next bridge's sink, would hold this
// bridge's write end open and its sink would never see end of input.
func Install(slot, target *os.File) error {
	var err error
	if slot.Fd() > 2 {
		err = installCloseOnExec(int(target.Fd()), int(slot.Fd()))
	} else {
		err = unix.Dup2(int(target.Fd()), int(slot.Fd()))
	}
	if err != nil {
		return fmt.Errorf("installing %s onto %s (fd %d): %w", target.Name(), slot.Name(), slot.Fd(), err)
	}
	return nil
}
