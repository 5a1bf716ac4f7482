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

package pcapextract

import (
	"testing"
	"time"
)

func buildFIXMessage(t *testing.T) []byte {
	t.Helper()
	body := "35=D\x0111=CL1\x01"
	msg := "8=FIX.4.4\x019=" + itoaTest(len(body)) + "\x01" + body + "10=000\x01"
	return []byte(msg)
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestReassembly_AppendsInOrder(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 1<<20, 60*time.Second)

	msg := buildFIXMessage(t)
	half := len(msg) / 2

	out1, err := r.Feed(key, 1000, msg[:half])
	if err != nil || len(out1) != 0 {
		t.Fatalf("expected no complete message yet, got %v err=%v", out1, err)
	}
	out2, err := r.Feed(key, 1000+uint32(half), msg[half:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out2) != 1 || string(out2[0]) != string(msg) {
		t.Fatalf("expected one reassembled message, got %v", out2)
	}
}

func TestReassembly_FlushesFullMessagesOnly(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 1<<20, 60*time.Second)

	msg1 := buildFIXMessage(t)
	partial := []byte("8=FIX.4.4\x019=100\x01")

	out, err := r.Feed(key, 1000, append(append([]byte{}, msg1...), partial...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one flushed message, got %d", len(out))
	}
}

func TestReassembly_RetransmitIsIgnored(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 1<<20, 60*time.Second)

	msg := buildFIXMessage(t)
	out1, err := r.Feed(key, 1000, msg)
	if err != nil || len(out1) != 1 {
		t.Fatalf("expected initial message to flush, got %v err=%v", out1, err)
	}

	out2, err := r.Feed(key, 1000, msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out2) != 0 {
		t.Fatalf("expected retransmit to be ignored, got %v", out2)
	}
}

func TestReassembly_OutOfOrderFutureSegmentIsSkipped(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 1<<20, 60*time.Second)

	msg := buildFIXMessage(t)
	half := len(msg) / 2

	// Establish the flow with the first half, then deliver the second
	// half far ahead of the expected sequence.
	out2, err := r.Feed(key, 1000, msg[:half])
	if err != nil || len(out2) != 0 {
		t.Fatalf("expected still-incomplete buffer, got %v err=%v", out2, err)
	}

	out, err := r.Feed(key, 1000+uint32(half)+500, msg[half:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected future segment to be skipped, got %v", out)
	}
}

func TestFlushCompleteMessages_EmitsAndRetainsTail(t *testing.T) {
	msg1 := buildFIXMessage(t)
	msg2 := buildFIXMessage(t)
	tail := []byte("8=FIX.4.4\x019=5\x01")

	flow := &FlowState{Buffer: append(append(append([]byte{}, msg1...), msg2...), tail...)}
	out := flushCompleteMessages(flow, 0x01)

	if len(out) != 2 {
		t.Fatalf("expected 2 messages flushed, got %d", len(out))
	}
	if string(flow.Buffer) != string(tail) {
		t.Fatalf("expected tail retained in buffer, got %q", flow.Buffer)
	}
}

func TestFeed_OverflowResetsBuffer(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 8, 60*time.Second)

	_, err := r.Feed(key, 1000, []byte("8=FIX.4.4\x019=999999\x01"))
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if flow := r.flows[key]; len(flow.Buffer) != 0 {
		t.Fatalf("expected buffer cleared after overflow, got %d bytes", len(flow.Buffer))
	}
}

func TestEvictIdle_RemovesStaleFlows(t *testing.T) {
	key := FlowKey{Src: [4]byte{1, 1, 1, 1}, Dst: [4]byte{2, 2, 2, 2}, SPort: 100, DPort: 200}
	r := NewReassembler(0x01, 1<<20, time.Second)
	fakeNow := time.Now()
	r.now = func() time.Time { return fakeNow }

	if _, err := r.Feed(key, 1000, []byte("8=FIX")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fakeNow = fakeNow.Add(2 * time.Second)
	r.EvictIdle()

	if _, ok := r.flows[key]; ok {
		t.Fatal("expected idle flow to be evicted")
	}
}
