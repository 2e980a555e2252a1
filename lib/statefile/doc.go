// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package statefile records where a tee session is currently logging.
//
// A session configured with a state file rewrites it after every
// redirect, pause and resume, and removes it on close. Other tools
// (tee-output where, shell prompts, crash collectors) read it to answer
// "where is this process logging to" and "which copier processes belong
// to it" without talking to the process.
//
// Each write goes to a temporary sibling that is synced and renamed
// into place, so readers never see a partial record. A process killed
// before it could close its session leaves its last record behind;
// [Lookup] reports such a record as not live because its owner pid no
// longer exists.
//
// This package has no dependencies on other teeoutput packages.
package statefile
