// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/teeoutput/lib/statefile"
)

// runWhere prints the destinations recorded in a session state file.
func runWhere(args []string, output io.Writer) error {
	var stateFile string
	flagSet := pflag.NewFlagSet("tee-output where", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.StringVar(&stateFile, "state-file", "", "state file written by a running tee-output")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if stateFile == "" {
		return fmt.Errorf("--state-file is required")
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	state, live, err := statefile.Lookup(stateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no session recorded at %s", stateFile)
		}
		return err
	}
	return printState(output, state, live)
}

func printState(output io.Writer, state statefile.State, alive bool) error {
	status := "running"
	switch {
	case !alive:
		status = "gone"
	case state.Paused:
		status = "paused"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "owner:   %d (%s)\n", state.OwnerPID, status)
	fmt.Fprintf(&builder, "stdout:  %s\n", strings.Join(state.Stdout, " "))
	fmt.Fprintf(&builder, "stderr:  %s\n", strings.Join(state.Stderr, " "))
	if len(state.SinkPIDs) > 0 {
		pids := make([]string, len(state.SinkPIDs))
		for index, pid := range state.SinkPIDs {
			pids[index] = fmt.Sprint(pid)
		}
		fmt.Fprintf(&builder, "sinks:   %s\n", strings.Join(pids, " "))
	}
	fmt.Fprintf(&builder, "updated: %s\n", state.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	_, err := io.WriteString(output, builder.String())
	return err
}
