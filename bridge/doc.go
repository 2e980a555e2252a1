// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge builds and retires the channels that stand between a
// process's live standard stream and its log files.
//
// A [Bridge] is a write end plus the copier ("sink") process reading
// from the other end. [Builder.Build] picks the channel type from the
// source stream:
//
//   - Terminal source: a pseudo-terminal pair. The source's termios and
//     window size are copied onto the pty so that isatty(), tcgetattr()
//     and TIOCGWINSZ on the write end report what the real terminal
//     would. The slave is put in raw mode so the copier reads exactly
//     the bytes written, and the sink process starts a new session and
//     takes the slave as its controlling terminal.
//   - Anything else: a plain pipe, and the sink gets no controlling
//     terminal.
//
// The sink runs as
//
//	<watchdog...> <copier...> <destination>...
//
// with the bridge's read end on stdin, the caller's untouched original
// stream on stdout (so the copier's passthrough reaches the real
// terminal or file, never the log), and stderr discarded. The defaults
// are [DefaultWatchdog] and [DefaultCopier].
//
// [Bridge.Retire] tears a bridge down: drain (pty only), close the
// write end, then wait for the sink as [RetirePolicy] directs. A sink
// whose input is still held open by another process (a child that
// inherited the bridged descriptor) never sees EOF; RetirePolicy bounds
// or skips that wait instead of blocking forever.
//
// Failures are reported as [*Error] values matching one of
// [ErrResourceAllocation], [ErrAttributeCopy], [ErrSpawn] or
// [ErrDirectoryCreation] under errors.Is. A failed Build releases
// everything it allocated.
package bridge
