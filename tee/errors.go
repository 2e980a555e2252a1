// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import "errors"

var (
	// ErrNotRedirected is returned by Resume before the first
	// successful Redirect.
	ErrNotRedirected = errors.New("tee: session has not been redirected")

	// ErrClosed is returned by every operation on a closed session.
	ErrClosed = errors.New("tee: session is closed")

	// ErrNoDestinations is returned when a stream's destination list is
	// empty or contains an empty path.
	ErrNoDestinations = errors.New("tee: no destination")
)
