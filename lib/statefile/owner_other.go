// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package statefile

func ownerExists(pid int) bool { return pid > 0 }
