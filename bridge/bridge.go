// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/bureau-foundation/teeoutput/lib/clock"
	"github.com/bureau-foundation/teeoutput/lib/pty"
	"github.com/bureau-foundation/teeoutput/lib/stdstream"
)

// DefaultCopier appends its stdin to every file named on its command
// line and echoes it to its stdout.
var DefaultCopier = []string{"tee", "-a"}

// DefaultWatchdog ends the copier once the terminal it was started on
// hangs up or the process that started it is gone.
var DefaultWatchdog = []string{"parent-lifetime", "--term"}

// drainPollInterval is how often Retire samples a pty's input queue.
const drainPollInterval = 10 * time.Millisecond

// Builder creates bridges. The zero value uses DefaultCopier under
// DefaultWatchdog, slog.Default and the real clock.
type Builder struct {
	// Copier is the command that appends stdin to the files given as
	// trailing arguments. Nil means DefaultCopier.
	Copier []string

	// Watchdog is the supervisor command prepended to the copier. Nil
	// means DefaultWatchdog.
	Watchdog []string

	// DisableWatchdog runs the copier directly.
	DisableWatchdog bool

	// Logger receives structured log output. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	// Clock drives retire timeouts and drain polling. If nil, the real
	// clock is used.
	Clock clock.Clock
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) clock() clock.Clock {
	if b.Clock != nil {
		return b.Clock
	}
	return clock.Real()
}

// Command returns the argv a sink for destinations runs.
func (b *Builder) Command(destinations []string) []string {
	var argv []string
	if !b.DisableWatchdog {
		watchdog := b.Watchdog
		if watchdog == nil {
			watchdog = DefaultWatchdog
		}
		argv = append(argv, watchdog...)
	}
	copier := b.Copier
	if len(copier) == 0 {
		copier = DefaultCopier
	}
	argv = append(argv, copier...)
	return append(argv, destinations...)
}

// Bridge is a live channel from a write end to a sink process that
// copies everything written into the destination files.
type Bridge struct {
	// Stream names the standard stream this bridge serves.
	Stream string

	// WriteEnd is the descriptor to install onto the stream's slot. It
	// is a pty master when Terminal is set and a pipe otherwise.
	WriteEnd *os.File

	// Terminal reports whether the bridge is pty-backed.
	Terminal bool

	// Destinations are the files the sink appends to, in argument
	// order.
	Destinations []string

	// slave is the parent's handle on the pty slave. It is used to
	// measure undrained output and to resize the pty; the sink holds
	// its own copy as stdin.
	slave *os.File

	sink    *exec.Cmd
	exited  chan struct{}
	waitErr error

	logger *slog.Logger
	clock  clock.Clock

	retireOnce sync.Once
	retireErr  error
}

// Build creates a bridge for stream. source is consulted for terminal
// status, attributes and window size; it is normally the caller's
// duplicate of the real stream. passthrough becomes the sink's stdout,
// so the copier's echo reaches the real stream. Every parent directory
// in destinations is created before any descriptor is allocated.
//
// On failure everything allocated so far is released and the returned
// error is an *Error.
func (b *Builder) Build(stream string, source, passthrough *os.File, destinations []string) (*Bridge, error) {
	if err := PrepareDestinations(stream, destinations); err != nil {
		return nil, err
	}

	logger := b.logger().With("stream", stream)

	bridge := &Bridge{
		Stream:       stream,
		Destinations: append([]string(nil), destinations...),
		logger:       logger,
		clock:        b.clock(),
	}

	var readEnd *os.File
	terminal := stdstream.IsTerminal(source)
	if terminal {
		master, slave, err := openTerminal(stream, source)
		switch {
		case err == nil:
			bridge.WriteEnd = master
			bridge.slave = slave
			bridge.Terminal = true
			readEnd = slave
		case errors.Is(err, pty.ErrUnsupported):
			logger.Warn("pseudo-terminals unavailable, bridging terminal through a pipe")
			terminal = false
		default:
			return nil, err
		}
	}
	if !terminal {
		pipeRead, pipeWrite, err := os.Pipe()
		if err != nil {
			return nil, &Error{Kind: ErrResourceAllocation, Stream: stream, Op: "create pipe", Err: err}
		}
		bridge.WriteEnd = pipeWrite
		readEnd = pipeRead
	}

	argv := b.Command(destinations)
	sink := exec.Command(argv[0], argv[1:]...)
	sink.Stdin = readEnd
	if passthrough != nil {
		sink.Stdout = passthrough
	}
	sink.SysProcAttr = sinkAttributes(bridge.Terminal)

	if err := sink.Start(); err != nil {
		bridge.WriteEnd.Close()
		readEnd.Close()
		return nil, &Error{Kind: ErrSpawn, Stream: stream, Op: fmt.Sprintf("start %s", argv[0]), Err: err}
	}

	// The slave stays open in the parent for drain and resize; a pipe
	// read end is only the sink's business from here on.
	if !bridge.Terminal {
		readEnd.Close()
	}

	bridge.sink = sink
	bridge.exited = make(chan struct{})
	go func() {
		bridge.waitErr = sink.Wait()
		close(bridge.exited)
	}()

	logger.Debug("bridge built",
		"terminal", bridge.Terminal,
		"sink_pid", sink.Process.Pid,
		"command", argv,
	)
	return bridge, nil
}

// openTerminal allocates a pty and mirrors source's attributes and
// geometry onto it. On error nothing stays open.
func openTerminal(stream string, source *os.File) (master, slave *os.File, err error) {
	master, slave, err = pty.Open()
	if err != nil {
		if errors.Is(err, pty.ErrUnsupported) {
			return nil, nil, err
		}
		return nil, nil, &Error{Kind: ErrResourceAllocation, Stream: stream, Op: "open pty", Err: err}
	}

	fail := func(op string, cause error) (*os.File, *os.File, error) {
		master.Close()
		slave.Close()
		return nil, nil, &Error{Kind: ErrAttributeCopy, Stream: stream, Op: op, Err: cause}
	}

	if err := pty.CopyAttributes(source, master, slave); err != nil {
		return fail("copy terminal attributes", err)
	}
	if err := pty.CopyWindowSize(source, slave); err != nil {
		return fail("copy window size", err)
	}
	if err := pty.MakeRaw(slave); err != nil {
		return fail("set raw mode", err)
	}
	return master, slave, nil
}

// SinkPID returns the process id of the sink, or 0 if the bridge has
// no sink.
func (b *Bridge) SinkPID() int {
	if b.sink == nil || b.sink.Process == nil {
		return 0
	}
	return b.sink.Process.Pid
}

// Exited returns a channel closed once the sink has been reaped. A
// bridge without a sink reports exited immediately.
func (b *Bridge) Exited() <-chan struct{} {
	if b.exited == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return b.exited
}

// SyncWindowSize applies source's window size to a pty bridge. It is a
// no-op for pipe bridges.
func (b *Bridge) SyncWindowSize(source *os.File) error {
	if !b.Terminal || b.slave == nil {
		return nil
	}
	if err := pty.CopyWindowSize(source, b.slave); err != nil {
		return &Error{Kind: ErrAttributeCopy, Stream: b.Stream, Op: "copy window size", Err: err}
	}
	return nil
}

// Retire closes the bridge's write end and then waits for its sink as
// policy directs. It must only be called once the write end is no
// longer installed on a live slot. Later calls return the result of the
// first.
func (b *Bridge) Retire(policy RetirePolicy) error {
	b.retireOnce.Do(func() {
		b.retireErr = b.retire(policy)
	})
	return b.retireErr
}

func (b *Bridge) retire(policy RetirePolicy) error {
	if b.Terminal {
		b.drain(policy.drainTimeout())
	}

	var errs []error
	if b.WriteEnd != nil {
		if err := b.WriteEnd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close write end: %w", err))
		}
	}
	if b.slave != nil {
		if err := b.slave.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pty slave: %w", err))
		}
	}

	if b.sink != nil {
		b.awaitSink(policy)
	}
	return errors.Join(errs...)
}

// drain waits until the copier has read everything written to the pty
// master, or until timeout elapses. Closing the master hangs up the
// slave, which discards unread input. The queue must read empty on two
// consecutive samples, since bytes in flight between the master and the
// slave's line discipline are not yet counted.
func (b *Bridge) drain(timeout time.Duration) {
	if timeout < 0 || b.slave == nil {
		return
	}
	deadline := b.clock.Now().Add(timeout)
	emptySamples := 0
	for {
		queued, err := pty.InputQueued(b.slave)
		if err != nil {
			b.logger.Debug("cannot measure pty input queue", "error", err)
			return
		}
		if queued == 0 {
			emptySamples++
			if emptySamples >= 2 {
				return
			}
		} else {
			emptySamples = 0
		}
		if !b.clock.Now().Before(deadline) {
			b.logger.Warn("pty bridge still has unread output at retirement",
				"queued_bytes", queued,
				"drain_timeout", timeout,
			)
			return
		}
		b.clock.Sleep(drainPollInterval)
	}
}

func (b *Bridge) awaitSink(policy RetirePolicy) {
	pid := b.SinkPID()
	logger := b.logger.With("sink_pid", pid)

	if policy.Mode == RetireDetach {
		select {
		case <-b.exited:
			b.logSinkExit(logger)
		default:
			logger.Warn("sink detached at retirement; it exits when its last writer closes")
		}
		return
	}

	if policy.Timeout <= 0 {
		<-b.exited
		b.logSinkExit(logger)
		return
	}

	select {
	case <-b.exited:
		b.logSinkExit(logger)
	case <-b.clock.After(policy.Timeout):
		if !policy.KillOnTimeout {
			logger.Warn("sink still running at retire timeout, detaching",
				"timeout", policy.Timeout,
			)
			return
		}
		logger.Warn("sink still running at retire timeout, killing",
			"timeout", policy.Timeout,
		)
		if err := killSink(pid); err != nil {
			logger.Warn("killing sink failed", "error", err)
			return
		}
		<-b.exited
	}
}

// logSinkExit records how the sink ended. A copier reading a hung-up
// pty commonly exits non-zero after it has copied everything, so
// failures are only worth Debug.
func (b *Bridge) logSinkExit(logger *slog.Logger) {
	if b.waitErr != nil {
		logger.Debug("sink exited", "error", b.waitErr)
		return
	}
	logger.Debug("sink exited")
}
