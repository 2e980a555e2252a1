// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tee-output runs a command with its standard output and standard
// error copied into log files. The command keeps talking to the same
// terminal (or file, or pipe) it would have had without tee-output:
// isatty, terminal modes and window size all behave as before.
//
//	tee-output -o build.log -e build.err -- make -j8
//	tee-output -l session.log -- python3 -m pdb script.py
//
// -o and -e may be repeated; -l adds a file to both streams. A stream
// without destinations of its own shares the other's.
//
// Behavior beyond the flags comes from the file named by --config or
// TEE_OUTPUT_CONFIG (see lib/config). tee-output's own diagnostics are
// written to the original stderr, never into the logs.
//
//	tee-output where --state-file /run/user/1000/tee.json
//
// prints the destinations recorded by a running tee-output started with
// the same --state-file.
package main
