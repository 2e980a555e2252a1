// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/ansi"
)

// maxPendingLine bounds how much of an unterminated line --strip-ansi
// holds back.
const maxPendingLine = 4096

// sink fans input out to a passthrough writer and a set of files.
type sink struct {
	passthrough io.Writer
	files       []*os.File
	stripANSI   bool
	logger      *slog.Logger

	// pending is the unterminated tail of the input, held back from
	// the files while stripping.
	pending []byte

	// failed records files that returned a write error; they receive
	// nothing further.
	failed map[*os.File]error
}

// openFiles opens every path for writing, creating it if needed. With
// appendMode existing content is kept; otherwise files are truncated.
func openFiles(paths []string, appendMode bool) ([]*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	files := make([]*os.File, 0, len(paths))
	for _, path := range paths {
		file, err := os.OpenFile(path, flags, 0644)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// Write copies p to the passthrough and the files. Errors from
// individual outputs are recorded and that output is dropped; Write
// itself always consumes all of p.
func (s *sink) Write(p []byte) (int, error) {
	if s.passthrough != nil {
		if _, err := s.passthrough.Write(p); err != nil {
			s.logger.Debug("passthrough write failed, continuing with files only", "error", err)
			s.passthrough = nil
		}
	}

	if !s.stripANSI {
		s.writeFiles(p)
		return len(p), nil
	}

	s.pending = append(s.pending, p...)
	cut := bytes.LastIndexByte(s.pending, '\n') + 1
	if cut == 0 && len(s.pending) > maxPendingLine {
		cut = len(s.pending)
	}
	if cut > 0 {
		s.writeFiles([]byte(ansi.Strip(string(s.pending[:cut]))))
		s.pending = append(s.pending[:0], s.pending[cut:]...)
	}
	return len(p), nil
}

func (s *sink) writeFiles(p []byte) {
	if len(p) == 0 {
		return
	}
	for _, file := range s.files {
		if _, failed := s.failed[file]; failed {
			continue
		}
		if _, err := file.Write(p); err != nil {
			if s.failed == nil {
				s.failed = make(map[*os.File]error)
			}
			s.failed[file] = err
			s.logger.Warn("log file write failed", "path", file.Name(), "error", err)
		}
	}
}

// Close flushes held-back input and closes the files. It reports every
// output that failed along the way.
func (s *sink) Close() error {
	if len(s.pending) > 0 {
		s.writeFiles([]byte(ansi.Strip(string(s.pending))))
		s.pending = nil
	}
	var errs []error
	for _, file := range s.files {
		if err, failed := s.failed[file]; failed {
			errs = append(errs, fmt.Errorf("writing %s: %w", file.Name(), err))
		}
		if err := file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", file.Name(), err))
		}
	}
	return errors.Join(errs...)
}
