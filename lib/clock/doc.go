// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction.
//
// Code that waits (bridge retirement timeouts, drain polling, the
// watchdog's parent polling and grace periods) takes a [Clock] instead of
// calling the time package directly. Production code uses [Real]; tests
// use [Fake], which only moves when [FakeClock.Advance] is called.
//
// A goroutine that calls After, NewTicker or Sleep on a FakeClock
// registers a pending waiter. Tests call [FakeClock.WaitForTimers]
// before Advance so the advance cannot race the registration:
//
//	go func() { done <- bridge.Retire(policy) }()
//	fakeClock.WaitForTimers(1)
//	fakeClock.Advance(5 * time.Second)
package clock
