// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tee copies a process's standard output and standard error
// into log files while leaving both streams looking exactly like what
// they were before: a terminal stays a terminal (isatty, termios and
// window size all answer as the real one would), a file or pipe stays
// a byte stream.
//
// A [Session] owns duplicates of the original stdout and stderr
// descriptors, taken once in [New]. [Session.Redirect] builds a fresh
// [bridge.Bridge] for each stream from those originals, installs both
// write ends onto descriptors 1 and 2 back to back, and only then
// retires the bridges they replaced, stdout first. Output written at
// any point during a switch reaches either the old files or the new
// ones, never neither and never both.
//
//	session, err := tee.Tee(tee.Paths("run.out"), tee.Paths("run.err"), tee.Options{})
//	if err != nil {
//		return err
//	}
//	defer session.Close()
//
// [Session.Pause] points both descriptors back at the originals (for
// instance while an interactive debugger owns the terminal) and
// [Session.Resume] reinstalls the bridges.
//
// Every live session is held by a process-wide registry until
// [Session.Close], so dropping the handle returned by New never lets
// the garbage collector close the duplicated descriptors out from under
// the running bridges.
//
// Descriptors 1 and 2 are process-global. Only one session should own
// them at a time.
package tee
