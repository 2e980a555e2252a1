// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package pty

import "os"

func Open() (master, slave *os.File, err error) { return nil, nil, ErrUnsupported }

func CopyAttributes(from *os.File, to ...*os.File) error { return ErrUnsupported }

func GetWindowSize(file *os.File) (WindowSize, error) { return WindowSize{}, ErrUnsupported }

func SetWindowSize(file *os.File, size WindowSize) error { return ErrUnsupported }

func CopyWindowSize(from, to *os.File) error { return ErrUnsupported }

func MakeRaw(file *os.File) error { return ErrUnsupported }

func InputQueued(file *os.File) (int, error) { return 0, ErrUnsupported }
