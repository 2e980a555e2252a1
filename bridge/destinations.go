// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"fmt"
	"os"
	"path/filepath"
)

// PrepareDestinations creates the parent directory of every path with
// mode 0755. Existing directories are left alone.
func PrepareDestinations(stream string, destinations []string) error {
	for _, path := range destinations {
		directory := filepath.Dir(path)
		if err := os.MkdirAll(directory, 0755); err != nil {
			return &Error{
				Kind:   ErrDirectoryCreation,
				Stream: stream,
				Op:     fmt.Sprintf("create directory for %s", path),
				Err:    err,
			}
		}
	}
	return nil
}
