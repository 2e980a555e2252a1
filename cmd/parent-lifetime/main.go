// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/teeoutput/lib/clock"
	"github.com/bureau-foundation/teeoutput/lib/process"
	"github.com/bureau-foundation/teeoutput/lib/version"
)

const (
	defaultGrace        = 2 * time.Second
	defaultPollInterval = time.Second
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// options is the parsed command line.
type options struct {
	// watchTerminal ends the command on SIGHUP as well as on parent
	// exit.
	watchTerminal bool

	grace        time.Duration
	pollInterval time.Duration
	verbose      bool
	command      []string

	// showVersion and showHelp short-circuit everything else.
	showVersion bool
	showHelp    bool
}

func parseArgs(args []string) (options, error) {
	var parsed options
	var term, parent bool

	flagSet := pflag.NewFlagSet("parent-lifetime", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(os.Stderr)
	flagSet.Usage = func() { printHelp(flagSet) }
	flagSet.BoolVar(&term, "term", false, "end the command when the controlling terminal hangs up or the parent exits")
	flagSet.BoolVar(&parent, "parent", false, "end the command when the parent exits")
	flagSet.DurationVar(&parsed.grace, "grace", defaultGrace, "time the command gets to exit on its own, and again after SIGTERM")
	flagSet.DurationVar(&parsed.pollInterval, "poll-interval", defaultPollInterval, "how often to check whether the parent is still alive")
	flagSet.BoolVarP(&parsed.verbose, "verbose", "v", false, "log supervision decisions at debug level")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return options{showHelp: true}, nil
		}
		return options{}, err
	}
	if parsed.showVersion || parsed.showHelp {
		return parsed, nil
	}

	switch {
	case term && parent:
		return options{}, fmt.Errorf("--term and --parent are mutually exclusive")
	case !term && !parent:
		return options{}, fmt.Errorf("a supervision mode is required (--term or --parent)")
	}
	parsed.watchTerminal = term

	if parsed.grace < 0 {
		return options{}, fmt.Errorf("--grace must not be negative, got %s", parsed.grace)
	}
	if parsed.pollInterval <= 0 {
		return options{}, fmt.Errorf("--poll-interval must be positive, got %s", parsed.pollInterval)
	}

	parsed.command = flagSet.Args()
	if len(parsed.command) == 0 {
		return options{}, fmt.Errorf("no command specified")
	}
	return parsed, nil
}

// run supervises the command and returns the exit code to propagate.
func run(args []string) int {
	parsed, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parent-lifetime: %v\n", err)
		return 2
	}
	if parsed.showVersion {
		version.Print("parent-lifetime")
		return 0
	}
	if parsed.showHelp {
		printHelp(nil)
		return 0
	}

	level := slog.LevelWarn
	if parsed.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("component", "parent-lifetime")

	// Ignored dispositions survive exec, so the command starts with
	// SIGHUP ignored. Notify below restores delivery to this process
	// only.
	signal.Ignore(syscall.SIGHUP)
	parentPID := os.Getppid()

	child := exec.Command(parsed.command[0], parsed.command[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "parent-lifetime: starting %s: %v\n", parsed.command[0], err)
		return 126
	}

	hangups := make(chan os.Signal, 1)
	if parsed.watchTerminal {
		signal.Notify(hangups, syscall.SIGHUP)
	}

	forwarded := make(chan os.Signal, 4)
	signal.Notify(forwarded, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go process.ForwardSignals(forwarded, child.Process)

	exited := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = child.Wait()
		close(exited)
	}()

	supervisor := &supervisor{
		clock:        clock.Real(),
		logger:       logger.With("pid", child.Process.Pid),
		grace:        parsed.grace,
		pollInterval: parsed.pollInterval,
		parentPID:    parentPID,
		getppid:      os.Getppid,
		signal:       child.Process.Signal,
		exited:       exited,
	}
	if supervisor.watch(hangups) {
		supervisor.terminate()
	}

	<-exited
	process.StopForwarding(forwarded)
	return process.ExitCode(waitErr)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `parent-lifetime: end a command when the terminal or parent that started it goes away.

Usage:
  parent-lifetime (--term | --parent) [flags] [--] <command> [args...]

Examples:
  # Copy a bridge into a log, ending with the terminal session
  parent-lifetime --term tee -a run.log

  # Give the command longer to flush before SIGTERM
  parent-lifetime --parent --grace 10s -- my-copier --flush run.log

`)
	if flagSet != nil {
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flagSet.PrintDefaults()
	}
}
