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
	"bytes"
	"encoding/binary"
	"testing"
)

// buildEthernetIPv4TCP constructs a minimal Ethernet(II)/IPv4/TCP
// frame carrying payload, for exercising DecodeEthernetIPv4TCP without
// a real capture file.
func buildEthernetIPv4TCP(t *testing.T, src, dst [4]byte, sport, dport uint16, seq uint32, payload []byte) []byte {
	t.Helper()

	tcpHeader := make([]byte, 20)
	binary.BigEndian.PutUint16(tcpHeader[0:2], sport)
	binary.BigEndian.PutUint16(tcpHeader[2:4], dport)
	binary.BigEndian.PutUint32(tcpHeader[4:8], seq)
	tcpHeader[12] = 5 << 4 // data offset = 5 words, no options

	ipTotalLen := 20 + len(tcpHeader) + len(payload)
	ipHeader := make([]byte, 20)
	ipHeader[0] = 0x45 // version 4, IHL 5
	binary.BigEndian.PutUint16(ipHeader[2:4], uint16(ipTotalLen))
	ipHeader[9] = 6 // TCP
	copy(ipHeader[12:16], src[:])
	copy(ipHeader[16:20], dst[:])

	eth := make([]byte, 14)
	binary.BigEndian.PutUint16(eth[12:14], 0x0800)

	frame := append(eth, ipHeader...)
	frame = append(frame, tcpHeader...)
	frame = append(frame, payload...)
	return frame
}

func TestDecodeEthernetIPv4TCP_ExtractsSegment(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	frame := buildEthernetIPv4TCP(t, src, dst, 1234, 5678, 9000, []byte("payload"))

	seg, ok := DecodeEthernetIPv4TCP(frame)
	if !ok {
		t.Fatal("expected successful decode")
	}
	if seg.Src != src || seg.Dst != dst {
		t.Fatalf("unexpected addresses: %+v", seg)
	}
	if seg.SPort != 1234 || seg.DPort != 5678 || seg.Seq != 9000 {
		t.Fatalf("unexpected ports/seq: %+v", seg)
	}
	if string(seg.Payload) != "payload" {
		t.Fatalf("unexpected payload: %q", seg.Payload)
	}
}

func TestDecodeEthernetIPv4TCP_RejectsNonIPv4(t *testing.T) {
	frame := make([]byte, 54)
	binary.BigEndian.PutUint16(frame[12:14], 0x86DD) // IPv6
	if _, ok := DecodeEthernetIPv4TCP(frame); ok {
		t.Fatal("expected IPv6 frame to be rejected")
	}
}

func TestDecodeEthernetIPv4TCP_RejectsTruncatedFrame(t *testing.T) {
	if _, ok := DecodeEthernetIPv4TCP([]byte{1, 2, 3}); ok {
		t.Fatal("expected truncated frame to be rejected")
	}
}

func TestReadPackets_ClassicPCAP(t *testing.T) {
	var buf bytes.Buffer

	global := make([]byte, 24)
	binary.LittleEndian.PutUint32(global[0:4], classicMagicLE)
	binary.LittleEndian.PutUint16(global[4:6], 2)
	binary.LittleEndian.PutUint16(global[6:8], 4)
	binary.LittleEndian.PutUint32(global[20:24], linkTypeEthernet)
	buf.Write(global)

	frame := buildEthernetIPv4TCP(t, [4]byte{1, 1, 1, 1}, [4]byte{2, 2, 2, 2}, 1, 2, 1, []byte("hi"))
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(frame)))
	binary.LittleEndian.PutUint32(rec[12:16], uint32(len(frame)))
	buf.Write(rec)
	buf.Write(frame)

	var got []RawPacket
	err := ReadPackets(&buf, func(p RawPacket) error {
		got = append(got, p)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].LinkType != linkTypeEthernet {
		t.Fatalf("expected one ethernet packet, got %+v", got)
	}
}

func TestReadPackets_UnsupportedFormat(t *testing.T) {
	buf := bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	err := ReadPackets(buf, func(RawPacket) error { return nil })
	if err != ErrUnsupportedFormat {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
