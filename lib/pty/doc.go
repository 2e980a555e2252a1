// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pty allocates pseudo-terminal pairs and copies terminal state
// between devices.
//
// Allocation goes through the Linux devpts interface directly
// (/dev/ptmx, TIOCGPTN, TIOCSPTLCK) rather than a cgo openpty call.
// Both ends are opened close-on-exec and without acquiring a
// controlling terminal; a child that should own the slave as its
// controlling terminal asks for it explicitly (SysProcAttr.Setctty).
//
// [CopyAttributes] and [CopyWindowSize] make a fresh pty look like an
// existing terminal: line discipline flags, echo, canonical mode, and
// geometry. [MakeRaw] strips all input and output processing from one
// end. [InputQueued] reports how many bytes written to the master are
// still waiting to be read from the slave.
//
// Only Linux is supported; other platforms return [ErrUnsupported].
package pty
