// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers shared by the teeoutput
// binaries: fatal error reporting before the structured logger exists,
// translating a child's wait error into an exit code, and forwarding
// signals from a wrapper to the process it supervises.
package process
