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

// Package pcapextract reassembles TCP flows captured in a PCAP or
// PCAPng file and emits the FIX messages framed inside them.
//
// Grounded entirely on original_source/pcap2fix/src/main.rs: FlowKey
// (4-tuple), FlowState{NextSeq, Buffer, LastSeen}, modulo-2^32 sequence
// comparison, BodyLength-driven message framing (find_message_end),
// idle-flow eviction, and a buffer-overflow diagnostic. PCAP/PCAPng
// container parsing (classic header + legacy records, and PCAPng
// Section Header / Interface Description / Enhanced Packet blocks) is
// hand-rolled in pcap.go since no Go pcap-reading library appears
// anywhere in the example corpus (see DESIGN.md).
package pcapextract

import (
	"errors"
	"fmt"
	"time"
)

// ErrFlowOverflow is returned when a flow's reassembly buffer exceeds
// MaxFlowBytes; the flow's buffer is cleared and reassembly restarts
// from the next segment.
var ErrFlowOverflow = errors.New("pcapextract: flow exceeded max buffer")

// FlowKey identifies one direction of a TCP connection. A
// bidirectional conversation occupies two FlowKey entries, one per
// direction, per spec.md's Design Notes.
type FlowKey struct {
	Src, Dst   [4]byte
	SPort, DPort uint16
}

func (k FlowKey) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d->%d.%d.%d.%d:%d",
		k.Src[0], k.Src[1], k.Src[2], k.Src[3], k.SPort,
		k.Dst[0], k.Dst[1], k.Dst[2], k.Dst[3], k.DPort)
}

// FlowState is one direction's in-progress reassembly buffer.
type FlowState struct {
	HasSeq   bool
	NextSeq  uint32
	Buffer   []byte
	LastSeen time.Time
}

// Reassembler owns the flow table for one PCAP run.
type Reassembler struct {
	flows        map[FlowKey]*FlowState
	delimiter    byte
	maxFlowBytes int
	idleTimeout  time.Duration
	now          func() time.Time
}

// NewReassembler returns a Reassembler configured with the message
// delimiter, per-flow buffer cap, and idle-eviction timeout (the
// defaults in pcap2fix/src/main.rs are delimiter=SOH,
// maxFlowBytes=1MiB, idleTimeout=60s).
func NewReassembler(delimiter byte, maxFlowBytes int, idleTimeout time.Duration) *Reassembler {
	return &Reassembler{
		flows:        make(map[FlowKey]*FlowState),
		delimiter:    delimiter,
		maxFlowBytes: maxFlowBytes,
		idleTimeout:  idleTimeout,
		now:          time.Now,
	}
}

// Feed ingests one TCP segment (src/dst/ports identify the flow
// direction, seq is the segment's starting sequence number) and
// returns every complete FIX message the updated buffer now contains.
func (r *Reassembler) Feed(key FlowKey, seq uint32, payload []byte) ([][]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	flow, ok := r.flows[key]
	if !ok {
		flow = &FlowState{}
		r.flows[key] = flow
	}
	flow.LastSeen = r.now()

	if err := appendSegment(flow, seq, payload); err != nil {
		return nil, err
	}

	if len(flow.Buffer) > r.maxFlowBytes {
		flow.Buffer = flow.Buffer[:0]
		return nil, ErrFlowOverflow
	}

	return flushCompleteMessages(flow, r.delimiter), nil
}

// appendSegment applies one segment to flow's buffer using modulo-2^32
// sequence arithmetic: in-order segments append directly, segments
// entirely ahead of the expected sequence are skipped (out-of-order,
// reordered arrival not supported), and segments behind or overlapping
// the expected sequence are trimmed to their new bytes only (retransmit
// or partial overlap).
func appendSegment(flow *FlowState, seq uint32, payload []byte) error {
	if !flow.HasSeq {
		flow.NextSeq = seq
		flow.HasSeq = true
	}
	expected := flow.NextSeq

	switch {
	case seq == expected:
		flow.Buffer = append(flow.Buffer, payload...)
		flow.NextSeq = seq + uint32(len(payload))
	case seqGreater(seq, expected):
		// Out-of-order future segment: skip for now, matching
		// pcap2fix/src/main.rs's reassemble_and_emit.
		return nil
	default:
		end := seq + uint32(len(payload))
		if !seqGreater(end, expected) {
			return nil // fully duplicate
		}
		overlap := expected - seq
		if int(overlap) > len(payload) {
			return nil
		}
		flow.Buffer = append(flow.Buffer, payload[overlap:]...)
		flow.NextSeq = expected + uint32(len(payload)) - overlap
	}
	return nil
}

// seqGreater compares TCP sequence numbers with wraparound, treating a
// as "ahead of" b when the signed difference is positive.
func seqGreater(a, b uint32) bool {
	return int32(a-b) > 0
}

func flushCompleteMessages(flow *FlowState, delimiter byte) [][]byte {
	var out [][]byte
	cursor := 0
	for {
		end, ok := findMessageEnd(flow.Buffer[cursor:], delimiter)
		if !ok {
			break
		}
		msg := make([]byte, end+1)
		copy(msg, flow.Buffer[cursor:cursor+end+1])
		out = append(out, msg)
		cursor += end + 1
	}
	if cursor > 0 {
		flow.Buffer = append(flow.Buffer[:0], flow.Buffer[cursor:]...)
	}
	return out
}

// findMessageEnd locates the end of one complete FIX message at the
// start of buf (BeginString, BodyLength-framed body, then a
// three-digit Checksum), returning the index of its trailing
// delimiter. This is the exact byte-budget used by
// pcap2fix/src/main.rs's find_message_end.
func findMessageEnd(buf []byte, delimiter byte) (int, bool) {
	if len(buf) < 16 {
		return 0, false
	}
	beginEnd := indexByte(buf, delimiter, 0)
	if beginEnd < 0 {
		return 0, false
	}
	bodyLenStart := beginEnd + 1
	bodyLenEnd := indexByte(buf, delimiter, bodyLenStart)
	if bodyLenEnd < 0 || bodyLenEnd <= bodyLenStart+1 {
		return 0, false
	}
	if !hasPrefixAt(buf, bodyLenStart, "9=") {
		return 0, false
	}
	bodyLen, ok := parseDecimal(buf[bodyLenStart+2 : bodyLenEnd])
	if !ok {
		return 0, false
	}
	bodyStart := bodyLenEnd + 1
	bodyEnd := bodyStart + bodyLen
	if bodyEnd+7 > len(buf) {
		return 0, false
	}
	if !hasPrefixAt(buf, bodyEnd, "10=") {
		return 0, false
	}
	for _, c := range buf[bodyEnd+3 : bodyEnd+6] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	endDelimIdx := bodyEnd + 6
	if endDelimIdx >= len(buf) || buf[endDelimIdx] != delimiter {
		return 0, false
	}
	return endDelimIdx, true
}

func indexByte(buf []byte, b byte, from int) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == b {
			return i
		}
	}
	return -1
}

func hasPrefixAt(buf []byte, at int, prefix string) bool {
	if at+len(prefix) > len(buf) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if buf[at+i] != prefix[i] {
			return false
		}
	}
	return true
}

func parseDecimal(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// EvictIdle drops every flow whose last segment arrived more than the
// configured idle timeout ago.
func (r *Reassembler) EvictIdle() {
	now := r.now()
	for key, flow := range r.flows {
		if now.Sub(flow.LastSeen) >= r.idleTimeout {
			delete(r.flows, key)
		}
	}
}

// Flush returns any complete messages sitting in every flow's buffer,
// for a best-effort drain at end of capture.
func (r *Reassembler) Flush() [][]byte {
	var out [][]byte
	for _, flow := range r.flows {
		out = append(out, flushCompleteMessages(flow, r.delimiter)...)
	}
	return out
}
