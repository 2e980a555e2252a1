// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package pty

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Open allocates a pty pair. Both files are close-on-exec and neither
// becomes the caller's controlling terminal.
func Open() (master, slave *os.File, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open /dev/ptmx: %w", err)
	}

	fd := int(master.Fd())

	ptyNumber, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("get PTY number (TIOCGPTN): %w", err)
	}

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("unlock PTY slave (TIOCSPTLCK): %w", err)
	}

	slavePath := fmt.Sprintf("/dev/pts/%d", ptyNumber)
	slave, err = os.OpenFile(slavePath, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("open PTY slave %s: %w", slavePath, err)
	}
	return master, slave, nil
}

// CopyAttributes applies the termios settings of from to every file in
// to, taking effect immediately (TCSETS).
func CopyAttributes(from *os.File, to ...*os.File) error {
	termios, err := unix.IoctlGetTermios(int(from.Fd()), unix.TCGETS)
	if err != nil {
		return fmt.Errorf("read attributes of %s: %w", from.Name(), err)
	}
	for _, file := range to {
		if err := unix.IoctlSetTermios(int(file.Fd()), unix.TCSETS, termios); err != nil {
			return fmt.Errorf("apply attributes to %s: %w", file.Name(), err)
		}
	}
	return nil
}

// GetWindowSize returns the geometry of the terminal behind file.
func GetWindowSize(file *os.File) (WindowSize, error) {
	winsize, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return WindowSize{}, fmt.Errorf("read window size of %s: %w", file.Name(), err)
	}
	return WindowSize{
		Rows:    winsize.Row,
		Columns: winsize.Col,
		XPixels: winsize.Xpixel,
		YPixels: winsize.Ypixel,
	}, nil
}

// SetWindowSize sets the geometry of the terminal behind file. On a pty
// this also delivers SIGWINCH to the slave's foreground process group.
func SetWindowSize(file *os.File, size WindowSize) error {
	winsize := &unix.Winsize{
		Row:    size.Rows,
		Col:    size.Columns,
		Xpixel: size.XPixels,
		Ypixel: size.YPixels,
	}
	if err := unix.IoctlSetWinsize(int(file.Fd()), unix.TIOCSWINSZ, winsize); err != nil {
		return fmt.Errorf("set window size of %s: %w", file.Name(), err)
	}
	return nil
}

// CopyWindowSize reads the geometry of from and applies it to to.
func CopyWindowSize(from, to *os.File) error {
	size, err := GetWindowSize(from)
	if err != nil {
		return err
	}
	return SetWindowSize(to, size)
}

// MakeRaw puts the terminal behind file into raw mode: no echo, no
// canonical line editing, no signal generation, no output processing.
func MakeRaw(file *os.File) error {
	if _, err := term.MakeRaw(int(file.Fd())); err != nil {
		return fmt.Errorf("set raw mode on %s: %w", file.Name(), err)
	}
	return nil
}

// InputQueued returns the number of bytes waiting in file's input
// queue. For a pty slave this is output written to the master that no
// reader has consumed yet.
func InputQueued(file *os.File) (int, error) {
	count, err := unix.IoctlGetInt(int(file.Fd()), unix.TIOCINQ)
	if err != nil {
		return 0, fmt.Errorf("query input queue of %s: %w", file.Name(), err)
	}
	return count, nil
}
