// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Build matches exactly one of
// these under errors.Is.
var (
	// ErrResourceAllocation covers pty, pipe and descriptor
	// duplication failures.
	ErrResourceAllocation = errors.New("resource allocation failed")

	// ErrAttributeCopy covers termios and window-size propagation
	// failures. A partially configured pty is never returned.
	ErrAttributeCopy = errors.New("terminal attribute copy failed")

	// ErrSpawn covers failure to start the sink or watchdog process.
	ErrSpawn = errors.New("sink spawn failed")

	// ErrDirectoryCreation covers failure to create a destination's
	// parent directory. It is reported before any descriptor is
	// allocated.
	ErrDirectoryCreation = errors.New("destination directory creation failed")
)

// Error describes a failed bridge operation.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error

	// Stream names the standard stream being bridged ("stdout",
	// "stderr").
	Stream string

	// Op is the step that failed, e.g. "open pty" or "start sink".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bridge %s: %s: %v", e.Stream, e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and
// errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
