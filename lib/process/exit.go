// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// ExitCode maps the error returned by exec.Cmd.Wait to the exit status
// a wrapper should propagate: 0 for nil, the child's status for a
// normal exit, 128+signal for a signal death (shell convention), and 1
// for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}

// ForwardSignals relays every signal received on signals to process
// until the channel is closed. Send errors are ignored: the child may
// already have exited.
func ForwardSignals(signals <-chan os.Signal, process *os.Process) {
	for sig := range signals {
		_ = process.Signal(sig)
	}
}

// StopForwarding stops signal delivery to signals and closes it, which
// ends the ForwardSignals loop reading from it. signal.Stop returns
// only once no further delivery can happen, so the close cannot race a
// send.
func StopForwarding(signals chan os.Signal) {
	signal.Stop(signals)
	close(signals)
}
