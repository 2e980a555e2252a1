// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/teeoutput/bridge"
	"github.com/bureau-foundation/teeoutput/lib/clock"
	"github.com/bureau-foundation/teeoutput/lib/statefile"
)

// stream is one redirected standard stream.
type stream struct {
	name string

	// slot is the live descriptor (1 or 2) that Install repoints.
	slot *os.File

	// original is the duplicate of slot taken in New. It is never
	// closed before the session is.
	original *os.File

	// current is the installed (or, while paused, bypassed) bridge.
	current *bridge.Bridge

	destinations []string
}

// target returns what slot should point at in the given pause state.
func (s *stream) target(paused bool) *os.File {
	if paused || s.current == nil {
		return s.original
	}
	return s.current.WriteEnd
}

// Session owns the redirection of one process's stdout and stderr.
// Methods are safe to call from multiple goroutines, but descriptors 1
// and 2 belong to the whole process: only one Session should drive
// them.
type Session struct {
	mu sync.Mutex

	stdout stream
	stderr stream

	paused bool
	closed bool

	system    system
	policy    bridge.RetirePolicy
	stateFile string
	logger    *slog.Logger
	clock     clock.Clock

	stopResize func()
}

// New duplicates the live stdout and stderr descriptors and registers
// the session. Nothing is redirected until Redirect.
func New(options Options) (*Session, error) {
	session := &Session{
		stdout:    stream{name: "stdout", slot: options.stdoutSlot()},
		stderr:    stream{name: "stderr", slot: options.stderrSlot()},
		system:    options.liveSystem(),
		policy:    options.Retire,
		stateFile: options.StateFile,
		logger:    options.logger(),
		clock:     options.Clock,
	}
	if session.clock == nil {
		session.clock = clock.Real()
	}

	original, err := session.system.Duplicate("stdout", session.stdout.slot)
	if err != nil {
		return nil, err
	}
	session.stdout.original = original

	original, err = session.system.Duplicate("stderr", session.stderr.slot)
	if err != nil {
		session.stdout.original.Close()
		return nil, err
	}
	session.stderr.original = original

	if options.PropagateResize {
		session.stopResize = watchResize(session)
	}

	register(session)
	return session, nil
}

// Tee creates a session and redirects it in one step. If the redirect
// fails the session is closed again.
func Tee(stdout, stderr Destinations, options Options) (*Session, error) {
	session, err := New(options)
	if err != nil {
		return nil, err
	}
	if err := session.Redirect(stdout, stderr); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// Redirect sends stdout to the files in stdoutDestinations and stderr
// to those in stderrDestinations. New bridges for both streams are
// built before either slot is touched and installed back to back; the
// bridges they replace are retired afterwards, stdout first, according
// to the session's RetirePolicy.
//
// On error the previous redirection (or the absence of one) is left in
// place. A paused session is resumed onto the new bridges.
func (s *Session) Redirect(stdoutDestinations, stderrDestinations Destinations) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	stdoutPaths, err := stdoutDestinations.normalize("stdout")
	if err != nil {
		return err
	}
	stderrPaths, err := stderrDestinations.normalize("stderr")
	if err != nil {
		return err
	}

	if err := bridge.PrepareDestinations("stdout", stdoutPaths); err != nil {
		return err
	}
	if err := bridge.PrepareDestinations("stderr", stderrPaths); err != nil {
		return err
	}

	newStdout, err := s.system.Build("stdout", s.stdout.original, stdoutPaths)
	if err != nil {
		return err
	}
	newStderr, err := s.system.Build("stderr", s.stderr.original, stderrPaths)
	if err != nil {
		s.discard(newStdout)
		return err
	}

	if err := s.system.Install("stdout", s.stdout.slot, newStdout.WriteEnd); err != nil {
		s.discard(newStdout, newStderr)
		return err
	}
	if err := s.system.Install("stderr", s.stderr.slot, newStderr.WriteEnd); err != nil {
		if restoreErr := s.system.Install("stdout", s.stdout.slot, s.stdout.target(s.paused)); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring stdout: %w", restoreErr))
		}
		s.discard(newStdout, newStderr)
		return err
	}

	previousStdout, previousStderr := s.stdout.current, s.stderr.current
	s.stdout.current, s.stdout.destinations = newStdout, stdoutPaths
	s.stderr.current, s.stderr.destinations = newStderr, stderrPaths
	s.paused = false

	s.logger.Info("standard streams redirected",
		"stdout", stdoutPaths,
		"stderr", stderrPaths,
		"terminal_stdout", newStdout.Terminal,
		"terminal_stderr", newStderr.Terminal,
	)
	s.saveState()

	s.retire(previousStdout)
	s.retire(previousStderr)
	return nil
}

// Pause points stdout and stderr back at the original streams. The
// bridges stay alive; output written while paused does not reach the
// log files.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.installBoth(true); err != nil {
		return err
	}
	s.paused = true
	s.logger.Debug("standard streams paused")
	s.saveState()
	return nil
}

// Resume reinstalls the current bridges after Pause.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.stdout.current == nil || s.stderr.current == nil {
		return ErrNotRedirected
	}
	if err := s.installBoth(false); err != nil {
		return err
	}
	s.paused = false
	s.logger.Debug("standard streams resumed")
	s.saveState()
	return nil
}

// installBoth points both slots at their targets for the given pause
// state. If stderr fails, stdout is put back where it was.
func (s *Session) installBoth(paused bool) error {
	if err := s.system.Install("stdout", s.stdout.slot, s.stdout.target(paused)); err != nil {
		return err
	}
	if err := s.system.Install("stderr", s.stderr.slot, s.stderr.target(paused)); err != nil {
		if restoreErr := s.system.Install("stdout", s.stdout.slot, s.stdout.target(s.paused)); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring stdout: %w", restoreErr))
		}
		return err
	}
	return nil
}

// Destinations returns copies of the current destination lists. Both
// are nil before the first Redirect.
func (s *Session) Destinations() (stdout, stderr []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stdout.destinations...), append([]string(nil), s.stderr.destinations...)
}

// Paused reports whether the session is currently paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Close restores the original streams, retires both bridges, closes
// the duplicated originals and removes the session from the registry.
// Calling Close again returns nil.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.stopResize != nil {
		s.stopResize()
	}

	var errs []error
	if s.stdout.current != nil || s.stderr.current != nil {
		if err := s.installBoth(true); err != nil {
			errs = append(errs, err)
		}
	}
	for _, current := range []*bridge.Bridge{s.stdout.current, s.stderr.current} {
		if current == nil {
			continue
		}
		if err := s.system.Retire(current, s.policy); err != nil {
			errs = append(errs, fmt.Errorf("retiring %s bridge: %w", current.Stream, err))
		}
	}
	s.stdout.current, s.stderr.current = nil, nil

	for _, original := range []*os.File{s.stdout.original, s.stderr.original} {
		if err := original.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", original.Name(), err))
		}
	}

	if s.stateFile != "" {
		if err := statefile.Clear(s.stateFile); err != nil {
			errs = append(errs, err)
		}
	}

	unregister(s)
	s.logger.Debug("tee session closed")
	return errors.Join(errs...)
}

// retire tears down a replaced bridge. The redirect it belongs to has
// already succeeded, so failures are logged rather than returned.
func (s *Session) retire(previous *bridge.Bridge) {
	if previous == nil {
		return
	}
	if err := s.system.Retire(previous, s.policy); err != nil {
		s.logger.Warn("retiring replaced bridge",
			"stream", previous.Stream,
			"destinations", previous.Destinations,
			"error", err,
		)
	}
}

// discard retires bridges that were built but never became current.
func (s *Session) discard(bridges ...*bridge.Bridge) {
	for _, unused := range bridges {
		if err := s.system.Retire(unused, s.policy); err != nil {
			s.logger.Debug("retiring unused bridge", "stream", unused.Stream, "error", err)
		}
	}
}

// saveState writes the state file, if one is configured. A failure
// only loses the external record, so it is logged.
func (s *Session) saveState() {
	if s.stateFile == "" {
		return
	}
	state := statefile.State{
		OwnerPID:  os.Getpid(),
		Stdout:    s.stdout.destinations,
		Stderr:    s.stderr.destinations,
		Paused:    s.paused,
		Timestamp: s.clock.Now().UTC().Truncate(time.Second),
	}
	for _, current := range []*bridge.Bridge{s.stdout.current, s.stderr.current} {
		if current != nil {
			state.SinkPIDs = append(state.SinkPIDs, current.SinkPID())
		}
	}
	if err := statefile.Write(s.stateFile, state); err != nil {
		s.logger.Warn("writing session state", "path", s.stateFile, "error", err)
	}
}

// syncWindowSizes re-applies each original terminal's window size to
// its pty bridge.
func (s *Session) syncWindowSizes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, entry := range []*stream{&s.stdout, &s.stderr} {
		if entry.current == nil {
			continue
		}
		if err := entry.current.SyncWindowSize(entry.original); err != nil {
			s.logger.Debug("propagating window size", "stream", entry.name, "error", err)
		}
	}
}
