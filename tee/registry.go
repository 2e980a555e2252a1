// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tee

import "sync"

// registry keeps every open session reachable. The duplicated original
// descriptors are *os.File values with finalizers; a session the
// caller stopped referencing would otherwise have them closed by the
// garbage collector while its bridges are still installed.
var registry struct {
	mu       sync.Mutex
	sessions []*Session
}

func register(session *Session) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.sessions = append(registry.sessions, session)
}

func unregister(session *Session) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for index, candidate := range registry.sessions {
		if candidate == session {
			registry.sessions = append(registry.sessions[:index], registry.sessions[index+1:]...)
			return
		}
	}
}

// Sessions returns the sessions created by New that have not been
// closed, oldest first.
func Sessions() []*Session {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return append([]*Session(nil), registry.sessions...)
}
