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

// Package testfix builds well-formed FIX messages for use as test
// fixtures across the rest of this module.
//
// Grounded on builder/messages.go's setString/setStringIfNotEmpty
// pattern, generalized away from quickfix's FieldSetter interface into
// plain ordered string-building, and on
// original_source/pcap2fix/src/main.rs's test helper
// build_fix_message, which computes BodyLength and Checksum the same
// way.
package testfix

import (
	"fmt"
	"strconv"
)

const (
	soh = "\x01"
)

// Builder accumulates tag=value pairs in insertion order and renders
// them into a complete, checksum-correct FIX message.
type Builder struct {
	beginString string
	msgType     string
	fields      []field
}

type field struct {
	tag   int
	value string
}

// New starts a message of the given MsgType under the given
// BeginString (e.g. "FIX.4.4").
func New(beginString, msgType string) *Builder {
	return &Builder{beginString: beginString, msgType: msgType}
}

// Set appends a tag=value pair to the message body.
func (b *Builder) Set(tag int, value string) *Builder {
	b.fields = append(b.fields, field{tag, value})
	return b
}

// SetIfNotEmpty appends a tag=value pair only when value is non-empty,
// mirroring builder/messages.go's setStringIfNotEmpty.
func (b *Builder) SetIfNotEmpty(tag int, value string) *Builder {
	if value != "" {
		b.Set(tag, value)
	}
	return b
}

// Build renders the accumulated fields into a full FIX message: tag 8
// (BeginString), tag 9 (BodyLength, computed), tag 35 (MsgType), the
// body fields in insertion order, then tag 10 (CheckSum, computed) --
// the same construction pcap2fix/src/main.rs's build_fix_message test
// helper performs.
func (b *Builder) Build() string {
	var body string
	body += tagValue(35, b.msgType)
	for _, f := range b.fields {
		body += tagValue(f.tag, f.value)
	}

	prefix := tagValue(8, b.beginString) + tagValue(9, strconv.Itoa(len(body)))
	withBody := prefix + body

	sum := 0
	for i := 0; i < len(withBody); i++ {
		sum += int(withBody[i])
	}
	checksum := sum % 256

	return withBody + tagValue(10, fmt.Sprintf("%03d", checksum))
}

func tagValue(tag int, value string) string {
	return strconv.Itoa(tag) + "=" + value + soh
}
