// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package statefile

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/teeoutput/lib/testutil"
)

func TestLookup(t *testing.T) {
	directory := t.TempDir()

	live := filepath.Join(directory, "live.json")
	if err := Write(live, State{OwnerPID: os.Getpid(), Stdout: []string{"/a"}, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	state, alive, err := Lookup(live)
	if err != nil || !alive || !slices.Equal(state.Stdout, []string{"/a"}) {
		t.Errorf("Lookup own session = (%+v, %v, %v), want live with stdout [/a]", state, alive, err)
	}

	// A record left by an owner that exited without closing.
	shell := testutil.RequireCommand(t, "sh")
	owner := exec.Command(shell, "-c", "exit 0")
	if err := owner.Run(); err != nil {
		t.Fatalf("running short-lived owner: %v", err)
	}
	stale := filepath.Join(directory, "stale.json")
	if err := Write(stale, State{OwnerPID: owner.Process.Pid, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	state, alive, err = Lookup(stale)
	if err != nil || alive {
		t.Errorf("Lookup stale = (alive %v, err %v), want not live", alive, err)
	}
	if state.OwnerPID != owner.Process.Pid {
		t.Errorf("stale record OwnerPID = %d, want %d", state.OwnerPID, owner.Process.Pid)
	}

	for _, pid := range []int{0, -1} {
		path := filepath.Join(directory, "invalid.json")
		if err := Write(path, State{OwnerPID: pid, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if _, alive, _ := Lookup(path); alive {
			t.Errorf("owner pid %d reported live", pid)
		}
	}

	if _, _, err := Lookup(filepath.Join(directory, "absent.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Lookup missing: error %v should wrap os.ErrNotExist", err)
	}
}
