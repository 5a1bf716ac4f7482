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

package streamdriver

import (
	"strings"
	"testing"

	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/schema"
	"github.com/coinbase-samples/fixdecode-go/internal/testfix"
)

func testLookup(t *testing.T) *registry.LayeredLookup {
	t.Helper()
	s := &schema.Schema{
		Fields: map[int]schema.Field{
			35: {Tag: 35, Name: "MsgType", Enums: map[string]string{"0": "Heartbeat"}},
		},
		FieldsByName: map[string]int{},
		Messages: map[string]schema.MessageDef{
			"0": {Name: "Heartbeat", MsgType: "0", FieldOrder: []int{8, 9, 35, 10}, Required: map[int]bool{}},
		},
		Groups:         map[int]schema.GroupDef{},
		RepeatableTags: map[int]bool{},
	}
	reg := registry.New()
	reg.Register("FIX44", s)
	lookup, err := reg.Lookup("FIX44")
	if err != nil {
		t.Fatal(err)
	}
	return lookup
}

func TestExtractFrames_FindsSingleMessage(t *testing.T) {
	msg := testfix.New("FIX.4.4", "0").Build()
	frames := ExtractFrames(msg)
	if len(frames) != 1 || frames[0] != msg {
		t.Fatalf("expected exactly one frame matching input, got %v", frames)
	}
}

func TestExtractFrames_IgnoresGarbagePrefix(t *testing.T) {
	msg := testfix.New("FIX.4.4", "0").Build()
	line := "noise-before " + msg + " noise-after"
	frames := ExtractFrames(line)
	if len(frames) != 1 || frames[0] != msg {
		t.Fatalf("expected one frame extracted from noisy line, got %v", frames)
	}
}

func TestRun_RendersCleanMessage(t *testing.T) {
	lookup := testLookup(t)
	msg := testfix.New("FIX.4.4", "0").Build()

	d := New(Options{Lookup: lookup})
	var out strings.Builder
	if err := d.Run(strings.NewReader(msg), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "MsgType") {
		t.Fatalf("expected rendered output, got %q", out.String())
	}
}

func TestRun_ValidateOnlySuppressesCleanMessages(t *testing.T) {
	lookup := testLookup(t)
	msg := testfix.New("FIX.4.4", "0").Build()

	d := New(Options{Lookup: lookup, ValidateOnly: true})
	var out strings.Builder
	if err := d.Run(strings.NewReader(msg), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "" {
		t.Fatalf("expected no output for a clean message in validate-only mode, got %q", out.String())
	}
}
