// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"fmt"
	"time"
)

// RetireMode selects how Retire waits for a sink after closing the
// bridge's write end.
type RetireMode int

const (
	// RetireWait blocks until the sink exits, bounded by
	// RetirePolicy.Timeout when set.
	RetireWait RetireMode = iota

	// RetireDetach returns immediately after closing the write end.
	// The sink is reaped in the background whenever it exits.
	RetireDetach
)

// DefaultDrainTimeout bounds how long Retire waits for a pty bridge's
// copier to consume buffered output before the write end is closed.
const DefaultDrainTimeout = time.Second

// String returns the mode name as used in configuration files.
func (m RetireMode) String() string {
	switch m {
	case RetireWait:
		return "wait"
	case RetireDetach:
		return "detach"
	default:
		return fmt.Sprintf("RetireMode(%d)", int(m))
	}
}

// ParseRetireMode converts a configuration value to a RetireMode. The
// empty string selects RetireWait.
func ParseRetireMode(value string) (RetireMode, error) {
	switch value {
	case "", "wait":
		return RetireWait, nil
	case "detach":
		return RetireDetach, nil
	default:
		return 0, fmt.Errorf("unknown retire mode %q (expected \"wait\" or \"detach\")", value)
	}
}

// RetirePolicy controls bridge teardown. The zero value waits for the
// sink without bound and drains pty bridges for DefaultDrainTimeout.
//
// A sink only exits once every write end of its bridge is closed. If a
// child process inherited the bridged descriptor, the sink stays alive
// as long as that child does, and an unbounded RetireWait blocks just
// as long.
type RetirePolicy struct {
	Mode RetireMode

	// Timeout bounds a RetireWait. Zero waits forever. When the timeout
	// expires the sink is detached, or killed if KillOnTimeout is set.
	Timeout time.Duration

	// KillOnTimeout kills the sink's process group instead of detaching
	// it when Timeout expires.
	KillOnTimeout bool

	// DrainTimeout bounds the pre-close drain of a pty bridge. Zero
	// means DefaultDrainTimeout; negative skips the drain.
	DrainTimeout time.Duration
}

func (p RetirePolicy) drainTimeout() time.Duration {
	if p.DrainTimeout == 0 {
		return DefaultDrainTimeout
	}
	return p.DrainTimeout
}
