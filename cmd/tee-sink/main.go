// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/teeoutput/lib/process"
	"github.com/bureau-foundation/teeoutput/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var appendMode, ignoreInterrupts, stripANSI, showVersion bool

	flagSet := pflag.NewFlagSet("tee-sink", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.BoolVarP(&appendMode, "append", "a", false, "append to the files instead of truncating them")
	flagSet.BoolVarP(&ignoreInterrupts, "ignore-interrupts", "i", false, "ignore SIGINT")
	flagSet.BoolVar(&stripANSI, "strip-ansi", false, "remove terminal escape sequences from file output")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		version.Print("tee-sink")
		return nil
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "Usage: tee-sink [-a] [-i] [--strip-ansi] FILE...\n\nFlags:\n")
		flagSet.PrintDefaults()
		return nil
	}

	if ignoreInterrupts {
		signal.Ignore(syscall.SIGINT)
	}
	// A closed passthrough must not kill the copy to the files.
	signal.Ignore(syscall.SIGPIPE)

	files, err := openFiles(flagSet.Args(), appendMode)
	if err != nil {
		return err
	}

	output := &sink{
		passthrough: os.Stdout,
		files:       files,
		stripANSI:   stripANSI,
		logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	copyErr := copyInput(output, os.Stdin)
	closeErr := output.Close()
	return errors.Join(copyErr, closeErr)
}

// copyInput copies input to output until EOF. EIO counts as EOF: a pty
// whose master has been closed returns it once drained.
func copyInput(output io.Writer, input io.Reader) error {
	_, err := io.Copy(output, input)
	if errors.Is(err, syscall.EIO) {
		return nil
	}
	return err
}
