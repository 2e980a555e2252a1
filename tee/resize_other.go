// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package tee

func watchResize(session *Session) (stop func()) {
	return func() {}
}
