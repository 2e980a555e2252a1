// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/bureau-foundation/teeoutput/lib/clock"
)

// supervisor decides when the supervised command has outlived its
// owner and escalates from waiting to SIGTERM to SIGKILL.
type supervisor struct {
	clock        clock.Clock
	logger       *slog.Logger
	grace        time.Duration
	pollInterval time.Duration

	// parentPID is the parent at startup. A different getppid() result
	// means the parent exited and this process was reparented.
	parentPID int
	getppid   func() int

	signal func(os.Signal) error
	exited <-chan struct{}
}

// watch blocks until the command exits on its own (false) or a trigger
// fires (true). Triggers are a value on hangups and a change of parent.
func (s *supervisor) watch(hangups <-chan os.Signal) bool {
	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.exited:
			return false
		case <-hangups:
			s.logger.Info("controlling terminal hung up")
			return true
		case <-ticker.C:
			if parent := s.getppid(); parent != s.parentPID {
				s.logger.Info("parent process exited",
					"original_parent", s.parentPID,
					"current_parent", parent,
				)
				return true
			}
		}
	}
}

// terminate gives the command one grace period to finish, then sends
// SIGTERM, then SIGKILL after a second grace period. It returns once
// the command has exited.
func (s *supervisor) terminate() {
	escalation := []syscall.Signal{syscall.SIGTERM, syscall.SIGKILL}
	for _, next := range escalation {
		select {
		case <-s.exited:
			return
		case <-s.clock.After(s.grace):
		}
		s.logger.Info("command still running after grace period", "signal", next.String())
		if err := s.signal(next); err != nil {
			s.logger.Debug("signal delivery failed", "signal", next.String(), "error", err)
		}
	}
	<-s.exited
}
