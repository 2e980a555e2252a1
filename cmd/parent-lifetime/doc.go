// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// parent-lifetime runs a command and ends it once the thing that
// started it is gone. It is the default watchdog wrapper for teeoutput
// copier processes:
//
//	parent-lifetime --term [--grace 2s] [--] tee -a run.log
//
// With --term the command is ended when the controlling terminal hangs
// up (SIGHUP) or when parent-lifetime's parent process exits. With
// --parent only the parent's exit counts.
//
// The command is started with SIGHUP ignored. A copier reading a pty
// bridge sees the hangup when the bridge is retired, and must keep
// reading until EOF rather than die with bytes still unread; ending it
// is parent-lifetime's decision. Once triggered, parent-lifetime waits
// --grace for the command to finish on its own, then sends SIGTERM, and
// after another --grace, SIGKILL.
//
// SIGINT, SIGTERM and SIGQUIT received by parent-lifetime are forwarded
// to the command. The exit status is the command's (128+N for death by
// signal N).
package main
