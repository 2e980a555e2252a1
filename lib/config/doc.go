// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the teeoutput
// binaries.
//
// Configuration is loaded from a single file named by either the
// TEE_OUTPUT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no discovery and no search path. Files
// ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas; everything else is parsed as YAML. Values not present
// in the file keep the [Default] values.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${TEE_OUTPUT_BIN} and ${VAR:-default} patterns are expanded.
// No environment variable overrides a value set in the file.
//
// Key exports:
//
//   - [Config] -- copier, watchdog, retire policy, state file, logging
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other teeoutput packages.
package config
