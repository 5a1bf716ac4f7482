/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package reporterr models spec.md §7's five-way error taxonomy as
// typed sentinel errors: SetupError (fatal, returned up to the CLI
// layer and never recovered from), FormatError and SchemaError
// (per-message decode/validate failures), a Reassembly diagnostic
// (non-fatal, surfaced as a warning during PCAP extraction), and an
// Operational warning (anything else worth logging but not returning).
//
// Grounded in the Rust ReassemblyError (a thiserror-derived enum in
// pcap2fix/src/main.rs), translated to Go's plain errors.New + %w
// wrapping convention rather than a code-generated enum.
package reporterr

import "errors"

// Category distinguishes the five error kinds for callers that branch
// on severity (e.g. the CLI layer choosing log level or exit code).
type Category int

const (
	// Setup is a fatal failure during startup (bad dictionary path,
	// unreadable config) -- returned as an error up to the CLI, which
	// exits with status 1; never os.Exit from inside a library package.
	Setup Category = iota
	// Format is a per-message structural failure (malformed framing,
	// unparseable tag).
	Format
	// Schema is a per-message failure resolving against a compiled
	// dictionary (unknown MsgType, missing required field).
	Schema
	// Reassembly is a non-fatal PCAP flow diagnostic (buffer overflow,
	// out-of-order segment).
	Reassembly
	// Operational is any other warning worth logging but not
	// returning as a failure.
	Operational
)

func (c Category) String() string {
	switch c {
	case Setup:
		return "setup"
	case Format:
		return "format"
	case Schema:
		return "schema"
	case Reassembly:
		return "reassembly"
	case Operational:
		return "operational"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with the category it belongs to.
type Error struct {
	Category Category
	Cause    error
}

func (e *Error) Error() string {
	return e.Category.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap annotates cause with category. A nil cause returns nil.
func Wrap(category Category, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Category: category, Cause: cause}
}

// Is reports whether err (or anything it wraps) was tagged with the
// given category.
func Is(err error, category Category) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Category == category
	}
	return false
}
