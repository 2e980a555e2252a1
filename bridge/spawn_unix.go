// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package bridge

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// sinkAttributes returns the process attributes for a sink. Every sink
// starts a new session, which drops any controlling terminal inherited
// from the caller. A terminal sink then takes its stdin (the pty slave)
// as its controlling terminal so that terminal-generated signals reach
// it.
func sinkAttributes(terminal bool) *syscall.SysProcAttr {
	attributes := &syscall.SysProcAttr{Setsid: true}
	if terminal {
		attributes.Setctty = true
		attributes.Ctty = 0
	}
	return attributes
}

// killSink kills the sink's whole process group. The sink is a session
// leader, so its pid is also its process group id; this reaches both
// the watchdog and the copier it supervises.
func killSink(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
