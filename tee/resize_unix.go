// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package tee

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize propagates SIGWINCH to the session's pty bridges until
// the returned function is called.
func watchResize(session *Session) (stop func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-signals:
				session.syncWindowSizes()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}
