// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tee-sink copies standard input to standard output and to every file
// named on its command line. It accepts the same invocation teeoutput
// uses for "tee" and can replace it as the copier:
//
//	tee-sink [-a] [-i] [--strip-ansi] FILE...
//
// With --strip-ansi, terminal escape sequences (colors, cursor motion,
// hyperlinks) are removed from what goes to the files; standard output
// still receives the input unchanged. Stripping works on whole lines,
// so a sequence split across two reads is never half-removed. A
// partial line is written once it grows past 4 KiB or input ends.
//
// Unlike tee, a read error of EIO is treated as end of input: that is
// what reading a pty returns once its other end has hung up, after
// everything written to it has been read.
package main
