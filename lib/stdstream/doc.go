// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stdstream holds the descriptor-level primitives used to swap
// a process's standard streams.
//
// [Duplicate] captures a private copy of a stream's descriptor that is
// unaffected by later reassignment of the original slot. The copy is
// close-on-exec, so it never leaks into unrelated child processes and
// holds a pipe open past its owner's lifetime.
//
// [Install] repoints a live slot (the descriptor number behind
// os.Stdout or os.Stderr) at another open file with dup2. Writes that
// go straight to fd 1 or 2, including Go runtime panics and output
// from C code, follow the swap, unlike reassigning the os.Stdout
// variable. A slot above fd 2, such as a file standing in for a stream
// in tests, is left close-on-exec.
//
// This package has no dependencies on other teeoutput packages.
package stdstream
