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

package obfuscate

import "testing"

func TestNoop_PassesLinesThroughUnchanged(t *testing.T) {
	o := Noop()
	line := "49=ABC\x0156=DEF\x01"
	if got := o.ObfuscateLine(line); got != line {
		t.Fatalf("expected unchanged line, got %q", got)
	}
}

func TestDefaultObfuscator_StableAliasPerValue(t *testing.T) {
	o := NewDefault(map[int]string{49: "SenderCompID"})

	first := o.ObfuscateLine("49=ABC\x0156=DEF\x01")
	second := o.ObfuscateLine("49=ABC\x0156=XYZ\x01")

	if first == second {
		t.Fatal("expected differing lines since tag 56 is untouched")
	}
	if !containsAlias(first, "SenderCompID") || !containsAlias(second, "SenderCompID") {
		t.Fatalf("expected both lines to carry a SenderCompID alias: %q %q", first, second)
	}

	firstAlias := extractTag49(t, first)
	secondAlias := extractTag49(t, second)
	if firstAlias != secondAlias {
		t.Fatalf("expected same alias for repeated value, got %q vs %q", firstAlias, secondAlias)
	}

	if got := extractTag56(t, second); got != "XYZ" {
		t.Fatalf("expected untouched tag 56 to survive, got %q", got)
	}
}

func TestDefaultObfuscator_ResetStartsAliasesOver(t *testing.T) {
	o := NewDefault(map[int]string{49: "SenderCompID"})

	first := extractTag49(t, o.ObfuscateLine("49=ABC\x01"))
	o.Reset()
	second := extractTag49(t, o.ObfuscateLine("49=ABC\x01"))

	if first == second {
		t.Fatalf("expected a fresh alias after Reset, got same alias %q twice", first)
	}
}

func containsAlias(line, name string) bool {
	return len(line) > 0 && (indexOf(line, name) >= 0)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func extractTag49(t *testing.T, line string) string {
	t.Helper()
	return extractTag(t, line, "49=")
}

func extractTag56(t *testing.T, line string) string {
	t.Helper()
	return extractTag(t, line, "56=")
}

func extractTag(t *testing.T, line, prefix string) string {
	t.Helper()
	idx := indexOf(line, prefix)
	if idx < 0 {
		t.Fatalf("expected %q in %q", prefix, line)
	}
	rest := line[idx+len(prefix):]
	end := indexOf(rest, "\x01")
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}
