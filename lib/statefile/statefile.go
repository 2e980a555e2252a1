// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the persisted view of one tee session.
type State struct {
	// OwnerPID is the process whose standard streams are teed.
	OwnerPID int `json:"owner_pid"`

	// Stdout and Stderr are the current destination lists, in copier
	// argument order.
	Stdout []string `json:"stdout"`
	Stderr []string `json:"stderr"`

	// SinkPIDs are the copier (or watchdog wrapper) processes of the
	// live bridges, stdout first.
	SinkPIDs []int `json:"sink_pids"`

	// Paused is true while the standard streams bypass the bridges.
	Paused bool `json:"paused"`

	// Timestamp is when the record was written.
	Timestamp time.Time `json:"timestamp"`
}

// Write replaces the state file at path with state. Missing parent
// directories are created with mode 0755, as for log destinations. The
// file is created 0600. Readers see either the old
// record or the new one: the record is written to a sibling temporary
// file and renamed over path.
func Write(path string, state State) (err error) {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}
	defer func() {
		if err != nil {
			temporary.Close()
			os.Remove(temporary.Name())
		}
	}()

	encoder := json.NewEncoder(temporary)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(state); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("syncing state file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return fmt.Errorf("renaming state file into place: %w", err)
	}

	if parent, err := os.Open(directory); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// Read parses the state file at path. A missing file yields an error
// wrapping os.ErrNotExist.
func Read(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return state, nil
}

// Lookup reads the state file at path and reports whether the session
// it describes is still live, meaning its owner process exists. A
// record whose owner is gone was left behind by a process that died
// without closing its session. Errors are those of [Read].
func Lookup(path string) (state State, live bool, err error) {
	state, err = Read(path)
	if err != nil {
		return State{}, false, err
	}
	return state, ownerExists(state.OwnerPID), nil
}

// Clear removes the state file. Removing a missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}
