// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import (
	"log/slog"
	"os"

	"github.com/bureau-foundation/teeoutput/bridge"
	"github.com/bureau-foundation/teeoutput/lib/clock"
)

// Options configures a Session. The zero value tees os.Stdout and
// os.Stderr through "tee -a" under the "parent-lifetime --term"
// watchdog and waits for replaced copiers without bound.
type Options struct {
	// Stdout and Stderr are the live slots to redirect. Nil means
	// os.Stdout and os.Stderr.
	Stdout *os.File
	Stderr *os.File

	// Copier, Watchdog and DisableWatchdog are passed to the
	// bridge.Builder.
	Copier          []string
	Watchdog        []string
	DisableWatchdog bool

	// Retire controls teardown of replaced bridges.
	Retire bridge.RetirePolicy

	// StateFile, when set, receives a statefile record after every
	// change and is removed on Close.
	StateFile string

	// PropagateResize re-applies the real terminal's window size to
	// pty bridges whenever the process receives SIGWINCH.
	PropagateResize bool

	// Logger receives structured log output. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	// Clock drives retire timeouts. If nil, the real clock is used.
	Clock clock.Clock

	// system replaces the descriptor and process operations in tests.
	system system
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *Options) stdoutSlot() *os.File {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o *Options) stderrSlot() *os.File {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

func (o *Options) liveSystem() system {
	if o.system != nil {
		return o.system
	}
	return &liveSystem{
		builder: &bridge.Builder{
			Copier:          o.Copier,
			Watchdog:        o.Watchdog,
			DisableWatchdog: o.DisableWatchdog,
			Logger:          o.Logger,
			Clock:           o.Clock,
		},
	}
}
