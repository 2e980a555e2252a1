// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/teeoutput/lib/config"
	"github.com/bureau-foundation/teeoutput/lib/stdstream"
)

// newLogger builds the diagnostics logger on output. In "auto" format
// a terminal gets human-readable text and anything else gets JSON.
func newLogger(output *os.File, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	handler, err := newHandler(output, cfg.Log.Format, stdstream.IsTerminal(output), level)
	if err != nil {
		return nil, err
	}
	return slog.New(handler).With("component", "tee-output"), nil
}

func newHandler(output io.Writer, format string, terminal bool, level slog.Level) (slog.Handler, error) {
	options := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.NewTextHandler(output, options), nil
	case "json":
		return slog.NewJSONHandler(output, options), nil
	case "", "auto":
		if terminal {
			return slog.NewTextHandler(output, options), nil
		}
		return slog.NewJSONHandler(output, options), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
