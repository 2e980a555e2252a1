// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pty

import "errors"

// ErrUnsupported is returned on platforms without devpts.
var ErrUnsupported = errors.New("pty: pseudo-terminals are not supported on this platform")

// WindowSize is a terminal's geometry as reported by TIOCGWINSZ.
type WindowSize struct {
	Rows    uint16
	Columns uint16
	XPixels uint16
	YPixels uint16
}
