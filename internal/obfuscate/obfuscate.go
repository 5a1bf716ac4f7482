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

// Package obfuscate defines the injection point the Stream Driver
// calls on each raw input line before decoding and rendering it, and a
// trivial default implementation.
//
// spec.md explicitly leaves redaction policy out of scope: it names
// the seam, not a default set of sensitive tags. This package mirrors
// that split: Obfuscator is the seam, and DefaultObfuscator is a
// minimal, opt-in implementation callers may substitute or ignore.
// Grounded on original_source/src/fix/obfuscator.rs (Obfuscator,
// enabled_line/obfuscate_line, reset, per-tag/value alias caching).
package obfuscate

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const soh = "\x01"

// Obfuscator is the redaction seam: ObfuscateLine transforms one raw
// SOH-delimited FIX line before it is decoded, and Reset starts a fresh
// aliasing session (e.g. per file or per connection).
type Obfuscator interface {
	ObfuscateLine(line string) string
	Reset()
}

// noop is the zero-value Obfuscator: every line passes through
// unchanged. Callers that never configure redaction get this behavior
// for free.
type noop struct{}

func (noop) ObfuscateLine(line string) string { return line }
func (noop) Reset()                           {}

// Noop returns an Obfuscator that never redacts anything.
func Noop() Obfuscator { return noop{} }

// DefaultObfuscator replaces the value of configured sensitive tags
// with a stable per-run surrogate, keyed by (tag, original value) so
// the same input always maps to the same alias until Reset is called.
// This mirrors obfuscator.rs's ObfuscatorState/next_alias, substituting
// a uuid-derived surrogate for the Rust source's counter-based name
// suffix.
type DefaultObfuscator struct {
	tags map[int]string

	mu      sync.Mutex
	aliases map[aliasKey]string
}

type aliasKey struct {
	tag   int
	value string
}

// NewDefault builds a DefaultObfuscator that redacts the given tags,
// labeling each alias with the provided display name (e.g.
// {49: "SenderCompID"}).
func NewDefault(tags map[int]string) *DefaultObfuscator {
	return &DefaultObfuscator{
		tags:    tags,
		aliases: make(map[aliasKey]string),
	}
}

// ObfuscateLine rewrites every tag=value fragment whose tag is
// configured for redaction, leaving all other fragments untouched.
func (o *DefaultObfuscator) ObfuscateLine(line string) string {
	fragments := strings.Split(line, soh)
	changed := false

	for i, fragment := range fragments {
		if fragment == "" {
			continue
		}
		tagStr, value, ok := splitOnce(fragment)
		if !ok {
			continue
		}
		tag, err := strconv.Atoi(tagStr)
		if err != nil {
			continue
		}
		name, ok := o.tags[tag]
		if !ok {
			continue
		}
		fragments[i] = tagStr + "=" + o.alias(tag, value, name)
		changed = true
	}

	if !changed {
		return line
	}
	return strings.Join(fragments, soh)
}

// Reset clears all cached aliases so the next occurrence of any tag
// value is assigned a fresh surrogate.
func (o *DefaultObfuscator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.aliases = make(map[aliasKey]string)
}

func (o *DefaultObfuscator) alias(tag int, value, name string) string {
	key := aliasKey{tag, value}

	o.mu.Lock()
	defer o.mu.Unlock()

	if alias, ok := o.aliases[key]; ok {
		return alias
	}
	alias := name + "-" + uuid.New().String()[:8]
	o.aliases[key] = alias
	return alias
}

func splitOnce(fragment string) (string, string, bool) {
	if idx := strings.IndexByte(fragment, '='); idx >= 0 {
		return fragment[:idx], fragment[idx+1:], true
	}
	return "", "", false
}
