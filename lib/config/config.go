// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Retire modes accepted in [RetireConfig].Mode.
const (
	RetireWait   = "wait"
	RetireDetach = "detach"
)

// Config is the teeoutput configuration.
type Config struct {
	// BinDir is searched before PATH when resolving the copier and
	// watchdog executables. Empty means PATH only.
	BinDir string `yaml:"bin_dir"`

	// Copier is the append-to-files command. Destination paths are
	// appended as further arguments.
	// Default: ["tee", "-a"]
	Copier []string `yaml:"copier"`

	// Watchdog configures the wrapper the copier runs under.
	Watchdog WatchdogConfig `yaml:"watchdog"`

	// Retire configures how replaced bridges are torn down.
	Retire RetireConfig `yaml:"retire"`

	// StateFile, when set, is kept up to date with the session's
	// destinations and sink processes.
	StateFile string `yaml:"state_file"`

	// PropagateResize re-applies the terminal's window size to pty
	// bridges on SIGWINCH.
	// Default: true
	PropagateResize bool `yaml:"propagate_resize"`

	// Log configures the binaries' own diagnostics.
	Log LogConfig `yaml:"log"`
}

// WatchdogConfig configures the watchdog wrapper.
type WatchdogConfig struct {
	// Enabled runs the copier under Command. When false the copier is
	// spawned directly and nothing reaps it if the owner dies while a
	// descendant still holds the bridge open.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Command is the wrapper and its mode flags; the copier command
	// follows it.
	// Default: ["parent-lifetime", "--term"]
	Command []string `yaml:"command"`
}

// RetireConfig configures bridge retirement.
type RetireConfig struct {
	// Mode is "wait" (block until the old copier exits) or "detach"
	// (never block; reap in the background).
	// Default: wait
	Mode string `yaml:"mode"`

	// Timeout bounds a "wait" retirement. Empty or "0" waits forever.
	Timeout string `yaml:"timeout"`

	// DrainTimeout bounds how long a pty bridge waits for the copier to
	// read buffered output before its master is closed.
	// Default: 1s
	DrainTimeout string `yaml:"drain_timeout"`

	// KillOnTimeout kills a copier still running at Timeout instead of
	// detaching it.
	KillOnTimeout bool `yaml:"kill_on_timeout"`
}

// LogConfig configures binary diagnostics.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`

	// Format is auto (text on a terminal, JSON otherwise), text or json.
	// Default: auto
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Copier: []string{"tee", "-a"},
		Watchdog: WatchdogConfig{
			Enabled: true,
			Command: []string{"parent-lifetime", "--term"},
		},
		Retire: RetireConfig{
			Mode:         RetireWait,
			DrainTimeout: "1s",
		},
		PropagateResize: true,
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by TEE_OUTPUT_CONFIG.
// An unset variable is an error; callers that treat configuration as
// optional check the variable themselves.
func Load() (*Config, error) {
	configPath := os.Getenv("TEE_OUTPUT_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("TEE_OUTPUT_CONFIG environment variable not set; " +
			"set it to the path of your config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from path on top of [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so stripped JSONC decodes through
		// the same struct tags.
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":           os.Getenv("HOME"),
		"TEE_OUTPUT_BIN": c.BinDir,
	}

	c.BinDir = expandVars(c.BinDir, vars)
	vars["TEE_OUTPUT_BIN"] = c.BinDir

	c.StateFile = expandVars(c.StateFile, vars)
	if len(c.Copier) > 0 {
		c.Copier[0] = expandVars(c.Copier[0], vars)
	}
	if len(c.Watchdog.Command) > 0 {
		c.Watchdog.Command[0] = expandVars(c.Watchdog.Command[0], vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Copier) == 0 || c.Copier[0] == "" {
		errs = append(errs, fmt.Errorf("copier is required"))
	}

	if c.Watchdog.Enabled && (len(c.Watchdog.Command) == 0 || c.Watchdog.Command[0] == "") {
		errs = append(errs, fmt.Errorf("watchdog.command is required when watchdog.enabled is true"))
	}

	retireModes := []string{RetireWait, RetireDetach}
	if !slices.Contains(retireModes, c.Retire.Mode) {
		errs = append(errs, fmt.Errorf("retire.mode must be one of: %v", retireModes))
	}
	if _, err := c.RetireTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DrainTimeout(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	logFormats := []string{"auto", "text", "json"}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RetireTimeout parses Retire.Timeout. Empty means zero (no bound).
func (c *Config) RetireTimeout() (time.Duration, error) {
	return parseDuration("retire.timeout", c.Retire.Timeout)
}

// DrainTimeout parses Retire.DrainTimeout. Empty means zero, which the
// bridge package replaces with its own default.
func (c *Config) DrainTimeout() (time.Duration, error) {
	return parseDuration("retire.drain_timeout", c.Retire.DrainTimeout)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", field, value)
	}
	return duration, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// BinaryPath resolves an executable name. A name containing a slash is
// returned unchanged; otherwise BinDir is searched first, then PATH.
func (c *Config) BinaryPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	if c.BinDir != "" {
		binPath := filepath.Join(c.BinDir, name)
		if _, err := os.Stat(binPath); err == nil {
			return binPath, nil
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		if c.BinDir != "" {
			return "", fmt.Errorf("%s not found in %s or PATH", name, c.BinDir)
		}
		return "", fmt.Errorf("%s not found in PATH", name)
	}
	return path, nil
}
