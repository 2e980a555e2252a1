// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package stdstream

import "os"

// Duplicate is not supported on this platform.
func Duplicate(stream *os.File) (*os.File, error) {
	return nil, ErrUnsupported
}

// Install is not supported on this platform.
func Install(slot, target *os.File) error {
	return ErrUnsupported
}
