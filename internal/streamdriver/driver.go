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

// Package streamdriver implements the line-oriented decode loop that
// ties the tokenizer, registry, validator, prettifier, and order
// aggregator together for file/stdin input -- spec.md §4.F's Stream
// Driver.
//
// Grounded on original_source/src/decoder/prettifier.rs's
// handle_stdin/stream_reader loop for the follow/cancellation
// semantics, and on the teacher's fixclient/repl.go for the Go
// concurrency idiom (a plain for-loop over a bufio.Scanner, no
// goroutines needed since processing is single-threaded per stream
// per spec.md §5).
package streamdriver

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/coinbase-samples/fixdecode-go/internal/obfuscate"
	"github.com/coinbase-samples/fixdecode-go/internal/orderbook"
	"github.com/coinbase-samples/fixdecode-go/internal/prettify"
	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/validate"
)

// framePattern matches the start of a FIX envelope embedded anywhere in
// a line: BeginString up to the first SOH, then the BodyLength digits
// and their SOH. ExtractFrames then checks that "10=" follows the
// declared number of body bytes and that a SOH follows the three
// Checksum bytes.
var framePattern = regexp.MustCompile(`8=FIX[^\x01]*\x019=(\d+)\x01`)

// Options configures one Driver run.
type Options struct {
	Lookup          *registry.LayeredLookup
	Obfuscator      obfuscate.Obfuscator
	Aggregator      *orderbook.Aggregator
	ValidateOnly    bool // emit output only for non-clean messages
	Follow          bool // tail -f semantics: sleep and retry on EOF
	FollowPollEvery time.Duration
	Cancel          *atomic.Bool
}

// Driver runs the Stream Driver algorithm over one reader, writing
// prettified output to out.
type Driver struct {
	opts Options
}

// New returns a Driver configured with opts. A nil Obfuscator is
// treated as obfuscate.Noop(); a zero FollowPollEvery defaults to
// 250ms per spec.md §5.
func New(opts Options) *Driver {
	if opts.Obfuscator == nil {
		opts.Obfuscator = obfuscate.Noop()
	}
	if opts.FollowPollEvery == 0 {
		opts.FollowPollEvery = 250 * time.Millisecond
	}
	return &Driver{opts: opts}
}

// Run reads lines from r until EOF (or forever, in follow mode),
// locating FIX message frames in each line, validating and rendering
// each one to out, and feeding it to the aggregator if configured.
// Returns promptly once Cancel is set, after flushing any output
// already produced for the current line.
func (d *Driver) Run(r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for {
		if d.opts.Cancel != nil && d.opts.Cancel.Load() {
			return nil
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("streamdriver: reading input: %w", err)
			}
			if !d.opts.Follow {
				return nil
			}
			time.Sleep(d.opts.FollowPollEvery)
			// A Scanner never reads again once it has hit EOF, so start a
			// fresh one to pick up whatever was appended to r since.
			scanner = bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
			continue
		}

		lineNo++
		line := d.opts.Obfuscator.ObfuscateLine(scanner.Text())

		for _, msg := range ExtractFrames(line) {
			d.processMessage(lineNo, msg, out)
		}
	}
}

func (d *Driver) processMessage(lineNo int, msg string, out io.Writer) {
	report := validate.Validate(msg, d.opts.Lookup)

	if d.opts.ValidateOnly && report.Clean() {
		if d.opts.Aggregator != nil {
			d.opts.Aggregator.RecordMessage(msg, d.opts.Lookup)
		}
		return
	}

	if d.opts.ValidateOnly {
		fmt.Fprintf(out, "Line %d: %s\n", lineNo, msg)
	}

	fmt.Fprint(out, prettify.Render(msg, d.opts.Lookup, report))
	fmt.Fprintln(out)

	if d.opts.Aggregator != nil {
		d.opts.Aggregator.RecordMessage(msg, d.opts.Lookup)
	}
}

// ExtractFrames returns every complete FIX message frame found in
// line, in order of appearance.
func ExtractFrames(line string) []string {
	var out []string
	cursor := 0
	for cursor < len(line) {
		loc := framePattern.FindStringSubmatchIndex(line[cursor:])
		if loc == nil {
			break
		}
		bodyLen, ok := atoiSub(line[cursor+loc[2] : cursor+loc[3]])
		if !ok {
			cursor += loc[1]
			continue
		}
		frameStart := cursor + loc[0]
		bodyStart := cursor + loc[1]
		bodyEnd := bodyStart + bodyLen
		if bodyEnd+7 > len(line) || line[bodyEnd:bodyEnd+3] != "10=" {
			cursor += loc[1]
			continue
		}
		checksumEnd := bodyEnd + 6
		if checksumEnd >= len(line) || line[checksumEnd] != 0x01 {
			cursor += loc[1]
			continue
		}
		out = append(out, line[frameStart:checksumEnd+1])
		cursor = checksumEnd + 1
	}
	return out
}

func atoiSub(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
