// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package bridge

import (
	"os"
	"syscall"
)

func sinkAttributes(terminal bool) *syscall.SysProcAttr { return nil }

func killSink(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Kill()
}
