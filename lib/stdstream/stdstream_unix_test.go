// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package stdstream

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestDuplicateIsCloseOnExec(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "stream"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer file.Close()

	duplicate, err := Duplicate(file)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	defer duplicate.Close()

	if duplicate.Fd() == file.Fd() {
		t.Fatalf("duplicate shares descriptor %d with the original", file.Fd())
	}
	flags, err := unix.FcntlInt(duplicate.Fd(), unix.F_GETFD, 0)
	if err != nil {
		t.Fatalf("F_GETFD: %v", err)
	}
	if flags&unix.FD_CLOEXEC == 0 {
		t.Error("duplicate is not close-on-exec")
	}
}

func TestDuplicateSurvivesSlotReassignment(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer reader.Close()

	duplicate, err := Duplicate(writer)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	// Repoint the original slot somewhere else entirely.
	other, err := os.Create(filepath.Join(t.TempDir(), "other"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer other.Close()
	if err := Install(writer, other); err != nil {
		t.Fatalf("Install: %v", err)
	}
	writer.Close()

	if _, err := duplicate.Write([]byte("still the pipe\n")); err != nil {
		t.Fatalf("write through duplicate: %v", err)
	}
	duplicate.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "still the pipe\n" {
		t.Errorf("pipe received %q, want %q", data, "still the pipe\n")
	}
}

func TestInstallRepointsSlot(t *testing.T) {
	directory := t.TempDir()
	slot, err := os.Create(filepath.Join(directory, "slot"))
	if err != nil {
		t.Fatalf("Create slot: %v", err)
	}
	defer slot.Close()
	targetPath := filepath.Join(directory, "target")
	target, err := os.Create(targetPath)
	if err != nil {
		t.Fatalf("Create target: %v", err)
	}
	defer target.Close()

	if err := Install(slot, target); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if _, err := slot.Write([]byte("via slot")); err != nil {
		t.Fatalf("write via slot: %v", err)
	}

	data, err := os.ReadFile(targetPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "via slot" {
		t.Errorf("target contains %q, want %q", data, "via slot")
	}
	if IsTerminal(slot) {
		t.Error("regular file reported as a terminal")
	}
}

func TestInstallAboveStandardSlotsIsCloseOnExec(t *testing.T) {
	directory := t.TempDir()
	slot, err := os.Create(filepath.Join(directory, "slot"))
	if err != nil {
		t.Fatalf("Create slot: %v", err)
	}
	defer slot.Close()
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer reader.Close()
	defer writer.Close()

	// Clear the flag first so the assertion sees what Install set.
	if _, err := unix.FcntlInt(slot.Fd(), unix.F_SETFD, 0); err != nil {
		t.Fatalf("F_SETFD: %v", err)
	}
	if err := Install(slot, writer); err != nil {
		t.Fatalf("Install: %v", err)
	}

	flags, err := unix.FcntlInt(slot.Fd(), unix.F_GETFD, 0)
	if err != nil {
		t.Fatalf("F_GETFD: %v", err)
	}
	if flags&unix.FD_CLOEXEC == 0 {
		t.Fatalf("slot fd %d is inheritable after Install; children would hold the pipe open", slot.Fd())
	}

	if _, err := slot.Write([]byte("x")); err != nil {
		t.Fatalf("write via slot: %v", err)
	}
	buffer := make([]byte, 1)
	if _, err := io.ReadFull(reader, buffer); err != nil || buffer[0] != 'x' {
		t.Fatalf("pipe read = %q, %v", buffer, err)
	}
}
