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

package prettify

import (
	"strings"
	"testing"

	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/schema"
	"github.com/coinbase-samples/fixdecode-go/internal/validate"
)

func testLookup(t *testing.T) *registry.LayeredLookup {
	t.Helper()
	s := &schema.Schema{
		Fields: map[int]schema.Field{
			8:  {Tag: 8, Name: "BeginString", Type: "STRING"},
			9:  {Tag: 9, Name: "BodyLength", Type: "LENGTH"},
			35: {Tag: 35, Name: "MsgType", Type: "STRING", Enums: map[string]string{"0": "Heartbeat"}},
			10: {Tag: 10, Name: "CheckSum", Type: "STRING"},
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

func TestRender_KnownMessageOrdersCanonically(t *testing.T) {
	lookup := testLookup(t)
	msg := "8=FIX.4.4\x019=5\x0135=0\x0110=000\x01"
	out := Render(msg, lookup, nil)

	if !strings.Contains(out, "8 (BeginString): FIX.4.4") {
		t.Fatalf("missing BeginString line: %s", out)
	}
	if !strings.Contains(out, "35 (MsgType): 0 (Heartbeat)") {
		t.Fatalf("missing enum-annotated MsgType line: %s", out)
	}
}

func TestRender_MissingTagAnnotation(t *testing.T) {
	lookup := testLookup(t)
	msg := "8=FIX.4.4\x019=0\x0110=000\x01"
	report := validate.Validate(msg, lookup)
	out := Render(msg, lookup, report)

	if !strings.Contains(out, "35 (MsgType):") {
		t.Fatalf("expected placeholder MsgType line, got: %s", out)
	}
}
