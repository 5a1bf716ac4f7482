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

// Package tokenizer provides FIX protocol message tokenization.
//
// HOT PATH: ParseFIX runs once per message on every decode, validate,
// and prettify call. It single-pass scans the message the same way
// fixclient.parseTradeFromSegmentFast does: manual byte-index scanning
// instead of strings.Split, to avoid allocating one string per field
// before we know how many fields there are.
package tokenizer

const soh = 0x01

// FieldValue is one parsed tag/value pair, in encounter order.
type FieldValue struct {
	Tag   int
	Value string
}

// ParseFIX splits a raw FIX message into ordered tag/value pairs.
// Fragments with no '=' are skipped, and fragments whose tag isn't a
// plain decimal integer are skipped -- mirroring
// original_source/src/decoder/fixparser.rs's parse_fix exactly: a
// message with no SOH delimiter at all parses to an empty slice rather
// than being treated as one giant fragment.
func ParseFIX(msg string) []FieldValue {
	if indexByte(msg, soh) < 0 {
		return nil
	}

	// Pre-count SOH-delimited fragments for exact-capacity allocation,
	// the same pre-scan fixclient.findEntryBoundaries uses.
	count := 1
	for i := 0; i < len(msg); i++ {
		if msg[i] == soh {
			count++
		}
	}
	fields := make([]FieldValue, 0, count)

	start := 0
	for start <= len(msg) {
		end := indexByteFrom(msg, soh, start)
		if end < 0 {
			end = len(msg)
		}
		fragment := msg[start:end]
		if fragment != "" {
			if fv, ok := parseFragment(fragment); ok {
				fields = append(fields, fv)
			}
		}
		if end == len(msg) {
			break
		}
		start = end + 1
	}
	return fields
}

func parseFragment(fragment string) (FieldValue, bool) {
	eq := indexByte(fragment, '=')
	if eq < 0 {
		return FieldValue{}, false
	}
	tag, ok := parseDecimal(fragment[:eq])
	if !ok {
		return FieldValue{}, false
	}
	return FieldValue{Tag: tag, Value: fragment[eq+1:]}, true
}

func parseDecimal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func indexByteFrom(s string, b byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// FieldMap indexes a parsed field slice by tag for O(1) lookup,
// keeping the last occurrence of a repeated tag -- callers that need
// duplicate detection should scan fields directly instead.
func FieldMap(fields []FieldValue) map[int]string {
	m := make(map[int]string, len(fields))
	for _, f := range fields {
		m[f.Tag] = f.Value
	}
	return m
}
