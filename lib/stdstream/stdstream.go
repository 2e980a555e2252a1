// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stdstream

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrUnsupported is returned on platforms without dup2 semantics.
var ErrUnsupported = errors.New("stdstream: descriptor duplication is not supported on this platform")

// IsTerminal reports whether stream refers to a terminal device.
func IsTerminal(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
