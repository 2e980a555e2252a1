// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import (
	"fmt"
	"path/filepath"
)

// Destinations is an ordered list of log file paths for one stream.
// The copier receives them in this order.
type Destinations []string

// Paths builds a Destinations from individual paths.
func Paths(paths ...string) Destinations {
	return Destinations(paths)
}

// normalize returns a cleaned copy of d. Empty lists and empty paths
// are rejected.
func (d Destinations) normalize(stream string) ([]string, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%s: %w", stream, ErrNoDestinations)
	}
	paths := make([]string, len(d))
	for index, path := range d {
		if path == "" {
			return nil, fmt.Errorf("%s: destination %d is empty: %w", stream, index, ErrNoDestinations)
		}
		paths[index] = filepath.Clean(path)
	}
	return paths, nil
}
