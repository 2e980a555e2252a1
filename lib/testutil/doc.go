// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for teeoutput packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [RequireCommand] resolves an external program (tee, sh, sleep) from
// PATH and skips the test when it is missing, so suites still run in
// minimal build sandboxes.
//
// [WaitForFile] polls a destination file until it holds the expected
// content. Copier processes write asynchronously to the process under
// test, so a log file is only guaranteed complete after the bridge is
// retired; tests that look earlier must poll.
//
// These helpers are the only place in the test suite where real
// wall-clock waits are used. All helpers call t.Fatalf on failure rather
// than returning errors, since test setup failures are not recoverable.
//
// This package has no teeoutput-internal dependencies.
package testutil
