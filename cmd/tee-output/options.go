// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/teeoutput/bridge"
	"github.com/bureau-foundation/teeoutput/lib/config"
	"github.com/bureau-foundation/teeoutput/tee"
)

// sessionOptions translates configuration into tee.Options. The copier
// and watchdog executables are resolved through BinDir and PATH here,
// so a missing binary is reported before any descriptor is touched.
func sessionOptions(cfg *config.Config, logger *slog.Logger) (tee.Options, error) {
	copier, err := resolveCommand(cfg, cfg.Copier)
	if err != nil {
		return tee.Options{}, fmt.Errorf("copier: %w", err)
	}

	var watchdog []string
	if cfg.Watchdog.Enabled {
		watchdog, err = resolveCommand(cfg, cfg.Watchdog.Command)
		if err != nil {
			return tee.Options{}, fmt.Errorf("watchdog: %w (use --no-watchdog to run copiers unsupervised)", err)
		}
	}

	mode, err := bridge.ParseRetireMode(cfg.Retire.Mode)
	if err != nil {
		return tee.Options{}, err
	}
	timeout, err := cfg.RetireTimeout()
	if err != nil {
		return tee.Options{}, err
	}
	drainTimeout, err := cfg.DrainTimeout()
	if err != nil {
		return tee.Options{}, err
	}

	return tee.Options{
		Copier:          copier,
		Watchdog:        watchdog,
		DisableWatchdog: !cfg.Watchdog.Enabled,
		Retire: bridge.RetirePolicy{
			Mode:          mode,
			Timeout:       timeout,
			KillOnTimeout: cfg.Retire.KillOnTimeout,
			DrainTimeout:  drainTimeout,
		},
		StateFile:       cfg.StateFile,
		PropagateResize: cfg.PropagateResize,
		Logger:          logger,
	}, nil
}

// resolveCommand returns command with its executable replaced by the
// resolved path.
func resolveCommand(cfg *config.Config, command []string) ([]string, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	path, err := cfg.BinaryPath(command[0])
	if err != nil {
		return nil, err
	}
	return append([]string{path}, command[1:]...), nil
}
