// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import (
	"os"

	"github.com/bureau-foundation/teeoutput/bridge"
	"github.com/bureau-foundation/teeoutput/lib/stdstream"
)

// system is every side effect a Session has on descriptors and
// processes.
type system interface {
	Duplicate(stream string, slot *os.File) (*os.File, error)
	Build(stream string, original *os.File, destinations []string) (*bridge.Bridge, error)
	Install(stream string, slot, target *os.File) error
	Retire(b *bridge.Bridge, policy bridge.RetirePolicy) error
}

type liveSystem struct {
	builder *bridge.Builder
}

func (s *liveSystem) Duplicate(stream string, slot *os.File) (*os.File, error) {
	original, err := stdstream.Duplicate(slot)
	if err != nil {
		return nil, &bridge.Error{Kind: bridge.ErrResourceAllocation, Stream: stream, Op: "duplicate original", Err: err}
	}
	return original, nil
}

// Build uses original both as the attribute source and as the copier's
// passthrough, so each stream's echo lands on its own real stream.
func (s *liveSystem) Build(stream string, original *os.File, destinations []string) (*bridge.Bridge, error) {
	return s.builder.Build(stream, original, original, destinations)
}

func (s *liveSystem) Install(stream string, slot, target *os.File) error {
	if err := stdstream.Install(slot, target); err != nil {
		return &bridge.Error{Kind: bridge.ErrResourceAllocation, Stream: stream, Op: "install", Err: err}
	}
	return nil
}

func (s *liveSystem) Retire(b *bridge.Bridge, policy bridge.RetirePolicy) error {
	return b.Retire(policy)
}
