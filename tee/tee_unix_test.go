// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package tee

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/term"

	"github.com/bureau-foundation/teeoutput/lib/pty"
	"github.com/bureau-foundation/teeoutput/lib/statefile"
	"github.com/bureau-foundation/teeoutput/lib/testutil"
)

// These tests run real copiers. The redirected slots are files and
// ptys created by the test, never the test binary's own stdout and
// stderr.

func createSlot(t *testing.T, name string) *os.File {
	t.Helper()
	slot, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("creating slot %s: %v", name, err)
	}
	t.Cleanup(func() { slot.Close() })
	return slot
}

func liveOptions(t *testing.T, stdout, stderr *os.File) Options {
	t.Helper()
	testutil.RequireCommand(t, "sh")
	return Options{
		Stdout: stdout,
		Stderr: stderr,
		// The trap keeps the copier reading to the end when a pty
		// bridge's master is closed, as the watchdog does in
		// production.
		Copier:          []string{"sh", "-c", `trap "" HUP; exec tee -a "$@"`, "tee"},
		DisableWatchdog: true,
	}
}

func write(t *testing.T, slot *os.File, text string) {
	t.Helper()
	if _, err := slot.WriteString(text); err != nil {
		t.Fatalf("writing to %s: %v", slot.Name(), err)
	}
}

func requireContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", filepath.Base(path), data, want)
	}
}

func TestSwitchDestinations(t *testing.T) {
	testutil.RequireCommand(t, "tee")
	directory := t.TempDir()
	stdoutSlot, stderrSlot := createSlot(t, "stdout"), createSlot(t, "stderr")
	options := liveOptions(t, stdoutSlot, stderrSlot)
	options.StateFile = filepath.Join(directory, "state.json")

	session, err := Tee(
		Paths(filepath.Join(directory, "a.out")),
		Paths(filepath.Join(directory, "a.err")),
		options,
	)
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	defer session.Close()

	state, err := statefile.Read(options.StateFile)
	if err != nil {
		t.Fatalf("reading state: %v", err)
	}
	if len(state.SinkPIDs) != 2 {
		t.Fatalf("state has %d sink pids, want 2", len(state.SinkPIDs))
	}

	write(t, stdoutSlot, "hello\n")
	write(t, stderrSlot, "oops\n")

	if err := session.Redirect(
		Paths(filepath.Join(directory, "b.out")),
		Paths(filepath.Join(directory, "b.err")),
	); err != nil {
		t.Fatalf("Redirect: %v", err)
	}
	for _, pid := range state.SinkPIDs {
		testutil.RequireExited(t, pid)
	}

	write(t, stdoutSlot, "world\n")
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	requireContent(t, filepath.Join(directory, "a.out"), "hello\n")
	requireContent(t, filepath.Join(directory, "a.err"), "oops\n")
	requireContent(t, filepath.Join(directory, "b.out"), "world\n")
	requireContent(t, filepath.Join(directory, "b.err"), "")

	// Each copier echoed to its own stream's original.
	requireContent(t, stdoutSlot.Name(), "hello\nworld\n")
	requireContent(t, stderrSlot.Name(), "oops\n")
}

func TestRepeatedRedirectReapsPreviousSinks(t *testing.T) {
	testutil.RequireCommand(t, "tee")
	directory := t.TempDir()
	stdoutSlot, stderrSlot := createSlot(t, "stdout"), createSlot(t, "stderr")
	options := liveOptions(t, stdoutSlot, stderrSlot)
	options.StateFile = filepath.Join(directory, "state.json")
	logPath := func(round int, stream string) string {
		return filepath.Join(directory, fmt.Sprintf("round%d.%s", round, stream))
	}

	session, err := Tee(Paths(logPath(0, "out")), Paths(logPath(0, "err")), options)
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	defer session.Close()

	for round := 1; round <= 3; round++ {
		previous, err := statefile.Read(options.StateFile)
		if err != nil {
			t.Fatalf("reading state before round %d: %v", round, err)
		}
		line := fmt.Sprintf("round %d\n", round-1)
		write(t, stdoutSlot, line)
		testutil.WaitForFile(t, logPath(round-1, "out"), line, 5*time.Second)

		// Under the default unbounded wait, Redirect returns only once
		// the previous sinks have seen end of input. A sink that
		// inherited an earlier bridge's write end never would.
		redirected := make(chan error, 1)
		go func() {
			redirected <- session.Redirect(Paths(logPath(round, "out")), Paths(logPath(round, "err")))
		}()
		if err := testutil.RequireReceive(t, redirected, 10*time.Second, "Redirect round %d", round); err != nil {
			t.Fatalf("Redirect round %d: %v", round, err)
		}
		for _, pid := range previous.SinkPIDs {
			testutil.RequireExited(t, pid)
		}
	}

	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	requireContent(t, stdoutSlot.Name(), "round 0\nround 1\nround 2\n")
}

func TestSwitchIsLossless(t *testing.T) {
	testutil.RequireCommand(t, "tee")
	directory := t.TempDir()
	stdoutSlot, stderrSlot := createSlot(t, "stdout"), createSlot(t, "stderr")
	first, second := filepath.Join(directory, "first.log"), filepath.Join(directory, "second.log")
	errorLog := filepath.Join(directory, "errors.log")

	session, err := Tee(Paths(first), Paths(errorLog), liveOptions(t, stdoutSlot, stderrSlot))
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	defer session.Close()

	var want [2]strings.Builder
	for index := range 500 {
		line := fmt.Sprintf("before %d\n", index)
		want[0].WriteString(line)
		write(t, stdoutSlot, line)
	}
	if err := session.Redirect(Paths(second), Paths(errorLog)); err != nil {
		t.Fatalf("Redirect: %v", err)
	}
	for index := range 500 {
		line := fmt.Sprintf("after %d\n", index)
		want[1].WriteString(line)
		write(t, stdoutSlot, line)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	requireContent(t, first, want[0].String())
	requireContent(t, second, want[1].String())
}

func TestAppendsToExistingLog(t *testing.T) {
	testutil.RequireCommand(t, "tee")
	directory := t.TempDir()
	log := filepath.Join(directory, "nested", "run.log")
	if err := os.MkdirAll(filepath.Dir(log), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(log, []byte("previous run\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stdoutSlot, stderrSlot := createSlot(t, "stdout"), createSlot(t, "stderr")

	session, err := Tee(Paths(log, filepath.Join(directory, "copy.log")), Paths(log), liveOptions(t, stdoutSlot, stderrSlot))
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	write(t, stdoutSlot, "this run\n")
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	requireContent(t, log, "previous run\nthis run\n")
	requireContent(t, filepath.Join(directory, "copy.log"), "this run\n")
}

func TestPauseBypassesLog(t *testing.T) {
	testutil.RequireCommand(t, "tee")
	directory := t.TempDir()
	log := filepath.Join(directory, "run.log")
	stdoutSlot, stderrSlot := createSlot(t, "stdout"), createSlot(t, "stderr")

	session, err := Tee(Paths(log), Paths(filepath.Join(directory, "err.log")), liveOptions(t, stdoutSlot, stderrSlot))
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	defer session.Close()

	write(t, stdoutSlot, "one\n")
	if err := session.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	write(t, stdoutSlot, "two\n")
	if err := session.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	write(t, stdoutSlot, "three\n")
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	requireContent(t, log, "one\nthree\n")
}

func TestTerminalStaysTerminal(t *testing.T) {
	testutil.RequireCommand(t, "tee")

	// The pty plays the user's terminal; its slave is the stdout slot.
	terminalMaster, terminal, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	defer terminalMaster.Close()
	defer terminal.Close()
	go io.Copy(io.Discard, terminalMaster)

	size := pty.WindowSize{Rows: 37, Columns: 117}
	if err := pty.SetWindowSize(terminal, size); err != nil {
		t.Fatalf("SetWindowSize: %v", err)
	}

	directory := t.TempDir()
	log := filepath.Join(directory, "tty.log")
	session, err := Tee(Paths(log), Paths(filepath.Join(directory, "err.log")), liveOptions(t, terminal, createSlot(t, "stderr")))
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	defer session.Close()

	if !term.IsTerminal(int(terminal.Fd())) {
		t.Error("redirected terminal slot no longer reports isatty")
	}
	got, err := pty.GetWindowSize(terminal)
	if err != nil {
		t.Fatalf("GetWindowSize on redirected slot: %v", err)
	}
	if got.Rows != size.Rows || got.Columns != size.Columns {
		t.Errorf("redirected slot window = %dx%d, want %dx%d", got.Rows, got.Columns, size.Rows, size.Columns)
	}

	write(t, terminal, "on the terminal\n")
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	requireContent(t, log, "on the terminal\n")

	if !term.IsTerminal(int(terminal.Fd())) {
		t.Error("restored terminal slot does not report isatty")
	}
}
