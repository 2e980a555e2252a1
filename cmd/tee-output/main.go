// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/teeoutput/lib/config"
	"github.com/bureau-foundation/teeoutput/lib/process"
	"github.com/bureau-foundation/teeoutput/lib/stdstream"
	"github.com/bureau-foundation/teeoutput/lib/version"
	"github.com/bureau-foundation/teeoutput/tee"
)

// exitError carries the child's exit status out of run.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("command exited with status %d", e.code) }

func main() {
	if err := run(os.Args[1:]); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		var start *startError
		if errors.As(err, &start) {
			fmt.Fprintf(os.Stderr, "tee-output: %v\n", err)
			os.Exit(start.ExitCode())
		}
		process.Fatal(err)
	}
}

// runOptions is the parsed command line for the default (run) mode.
type runOptions struct {
	stdout []string
	stderr []string
	both   []string

	configPath    string
	stateFile     string
	retireTimeout time.Duration
	noWatchdog    bool
	stripANSI     bool
	verbose       bool

	command []string

	showVersion bool
	showHelp    bool
}

// destinations combines -l with the per-stream flags. A stream with no
// destinations of its own shares the other stream's.
func (o *runOptions) destinations() (stdout, stderr tee.Destinations, err error) {
	stdout = append(append(tee.Destinations(nil), o.both...), o.stdout...)
	stderr = append(append(tee.Destinations(nil), o.both...), o.stderr...)
	switch {
	case len(stdout) == 0 && len(stderr) == 0:
		return nil, nil, fmt.Errorf("no log files given (use -o, -e or -l)")
	case len(stdout) == 0:
		stdout = stderr
	case len(stderr) == 0:
		stderr = stdout
	}
	return stdout, stderr, nil
}

func newRunFlagSet(parsed *runOptions) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("tee-output", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(os.Stderr)
	flagSet.StringArrayVarP(&parsed.stdout, "stdout", "o", nil, "append standard output to `file` (repeatable)")
	flagSet.StringArrayVarP(&parsed.stderr, "stderr", "e", nil, "append standard error to `file` (repeatable)")
	flagSet.StringArrayVarP(&parsed.both, "log", "l", nil, "append both streams to `file` (repeatable)")
	flagSet.StringVar(&parsed.configPath, "config", "", "configuration file (default: $TEE_OUTPUT_CONFIG)")
	flagSet.StringVar(&parsed.stateFile, "state-file", "", "keep a JSON record of the session at `path`")
	flagSet.DurationVar(&parsed.retireTimeout, "retire-timeout", 0, "bound the wait for replaced copiers (0: use configuration)")
	flagSet.BoolVar(&parsed.noWatchdog, "no-watchdog", false, "run copiers without the parent-lifetime wrapper")
	flagSet.BoolVar(&parsed.stripANSI, "strip-ansi", false, "copy through tee-sink --strip-ansi so log files hold plain text")
	flagSet.BoolVarP(&parsed.verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.showHelp, "help", "h", false, "show help")
	return flagSet
}

func parseRunArgs(args []string) (runOptions, error) {
	var parsed runOptions
	flagSet := newRunFlagSet(&parsed)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return runOptions{showHelp: true}, nil
		}
		return runOptions{}, err
	}
	if parsed.showVersion || parsed.showHelp {
		return parsed, nil
	}
	if parsed.retireTimeout < 0 {
		return runOptions{}, fmt.Errorf("--retire-timeout must not be negative, got %s", parsed.retireTimeout)
	}
	parsed.command = flagSet.Args()
	if len(parsed.command) == 0 {
		return runOptions{}, fmt.Errorf("no command specified")
	}
	if _, _, err := parsed.destinations(); err != nil {
		return runOptions{}, err
	}
	return parsed, nil
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "where" {
		return runWhere(args[1:], os.Stdout)
	}

	parsed, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if parsed.showVersion {
		version.Print("tee-output")
		return nil
	}
	if parsed.showHelp {
		printHelp(newRunFlagSet(&runOptions{}))
		return nil
	}

	cfg, err := loadConfig(parsed.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, &parsed)

	// Diagnostics go to a duplicate of stderr taken now, before the
	// session repoints descriptor 2 at a bridge.
	diagnostics, err := stdstream.Duplicate(os.Stderr)
	if err != nil {
		return err
	}
	defer diagnostics.Close()
	logger, err := newLogger(diagnostics, cfg)
	if err != nil {
		return err
	}

	options, err := sessionOptions(cfg, logger)
	if err != nil {
		return err
	}

	stdout, stderr, _ := parsed.destinations()
	session, err := tee.Tee(stdout, stderr, options)
	if err != nil {
		return fmt.Errorf("redirecting output: %w", err)
	}

	code, runErr := runCommand(parsed.command)
	if closeErr := session.Close(); closeErr != nil {
		logger.Warn("closing tee session", "error", closeErr)
	}
	if runErr != nil {
		return runErr
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// runCommand runs the command on the redirected descriptors and returns
// its exit status.
func runCommand(command []string) (int, error) {
	child := exec.Command(command[0], command[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		return 0, &startError{command: command[0], err: err}
	}

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go process.ForwardSignals(signals, child.Process)

	waitErr := child.Wait()
	process.StopForwarding(signals)
	return process.ExitCode(waitErr), nil
}

// startError reports a command that could not be started, with the
// shell's exit status for that case.
type startError struct {
	command string
	err     error
}

func (e *startError) Error() string { return fmt.Sprintf("starting %s: %v", e.command, e.err) }

func (e *startError) Unwrap() error { return e.err }

func (e *startError) ExitCode() int {
	if errors.Is(e.err, exec.ErrNotFound) || errors.Is(e.err, os.ErrNotExist) {
		return 127
	}
	return 126
}

// loadConfig reads the configuration named by --config, then
// TEE_OUTPUT_CONFIG, falling back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv("TEE_OUTPUT_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides configuration with explicit flags.
func applyFlags(cfg *config.Config, parsed *runOptions) {
	if parsed.stateFile != "" {
		cfg.StateFile = parsed.stateFile
	}
	if parsed.retireTimeout > 0 {
		cfg.Retire.Timeout = parsed.retireTimeout.String()
	}
	if parsed.noWatchdog {
		cfg.Watchdog.Enabled = false
	}
	if parsed.stripANSI {
		cfg.Copier = []string{"tee-sink", "-a", "--strip-ansi"}
	}
	if parsed.verbose {
		cfg.Log.Level = "debug"
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `tee-output: run a command with its output copied into log files.

Usage:
  tee-output [flags] [--] <command> [args...]
  tee-output where --state-file <path>

Examples:
  # Separate logs for each stream
  tee-output -o build.log -e build.err -- make -j8

  # One transcript of an interactive session
  tee-output -l session.log -- python3 -m pdb script.py

  # Plain-text logs from a colorizing tool
  tee-output --strip-ansi -l test.log -- go test ./...

Flags:
`)
	flagSet.PrintDefaults()
}
