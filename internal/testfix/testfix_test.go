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

package testfix

import (
	"strconv"
	"strings"
	"testing"
)

func TestBuild_ProducesCorrectBodyLengthAndChecksum(t *testing.T) {
	msg := New("FIX.4.4", "D").
		Set(11, "CL1").
		Set(55, "BTC-USD").
		SetIfNotEmpty(54, "1").
		SetIfNotEmpty(38, "").
		Build()

	if !strings.HasPrefix(msg, "8=FIX.4.4\x019=") {
		t.Fatalf("unexpected message prefix: %q", msg)
	}
	if strings.Contains(msg, "38=") {
		t.Fatalf("expected empty field to be omitted: %q", msg)
	}

	parts := strings.Split(msg, "\x01")
	var bodyLen int
	var declaredChecksum string
	for _, p := range parts {
		if strings.HasPrefix(p, "9=") {
			bodyLen, _ = strconv.Atoi(p[2:])
		}
		if strings.HasPrefix(p, "10=") {
			declaredChecksum = p[3:]
		}
	}

	bodyStart := strings.Index(msg, "\x01") + 1
	bodyStart = strings.Index(msg[bodyStart:], "\x01") + bodyStart + 1
	body := msg[bodyStart : bodyStart+bodyLen]
	if len(body) != bodyLen {
		t.Fatalf("declared body length %d does not match actual body %q", bodyLen, body)
	}

	prefixAndBody := msg[:bodyStart+bodyLen]
	sum := 0
	for i := 0; i < len(prefixAndBody); i++ {
		sum += int(prefixAndBody[i])
	}
	want := pad3(sum % 256)
	if declaredChecksum != want {
		t.Fatalf("checksum mismatch: declared %s, computed %s", declaredChecksum, want)
	}
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
