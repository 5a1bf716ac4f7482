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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	classicMagicLE      = 0xa1b2c3d4
	classicMagicBE      = 0xd4c3b2a1
	classicMagicNanoLE  = 0xa1b23c4d
	classicMagicNanoBE  = 0x4d3cb2a1
	pcapngMagic         = 0x0a0d0d0a

	blockTypeSectionHeader  = 0x0a0d0d0a
	blockTypeInterfaceDesc  = 0x00000001
	blockTypeEnhancedPacket = 0x00000006
	blockTypeSimplePacket   = 0x00000003

	linkTypeEthernet = 1
)

// ErrUnsupportedFormat is returned when the input is neither a classic
// PCAP nor a PCAPng capture.
var ErrUnsupportedFormat = errors.New("pcapextract: unrecognized capture format")

// RawPacket is one captured frame along with the link-layer type of
// the interface it arrived on.
type RawPacket struct {
	LinkType uint32
	Data     []byte
}

// ReadPackets detects whether r holds a classic PCAP or a PCAPng
// capture by sniffing its magic number, then streams every packet
// record it contains. Grounded on pcap2fix/src/main.rs's use of
// pcap_parser's PcapBlockOwned::{LegacyHeader, Legacy, NG}; container
// parsing itself is hand-rolled since no Go pcap library appears in
// the example corpus (see DESIGN.md).
func ReadPackets(r io.Reader, emit func(RawPacket) error) error {
	br := bufio.NewReader(r)
	magic, err := peekMagic(br)
	if err != nil {
		return err
	}

	switch magic {
	case classicMagicLE, classicMagicBE, classicMagicNanoLE, classicMagicNanoBE:
		return readClassicPCAP(br, magic, emit)
	case pcapngMagic:
		return readPCAPNG(br, emit)
	default:
		return ErrUnsupportedFormat
	}
}

func peekMagic(br *bufio.Reader) (uint32, error) {
	b, err := br.Peek(4)
	if err != nil {
		return 0, fmt.Errorf("pcapextract: reading magic number: %w", err)
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readClassicPCAP consumes the 24-byte global header followed by a
// stream of (16-byte record header, packet data) pairs.
func readClassicPCAP(br *bufio.Reader, magic uint32, emit func(RawPacket) error) error {
	order, nanoRes := classicByteOrder(magic)
	_ = nanoRes // timestamp resolution is not needed for reassembly

	header := make([]byte, 24)
	if _, err := io.ReadFull(br, header); err != nil {
		return fmt.Errorf("pcapextract: reading global header: %w", err)
	}
	linkType := order.Uint32(header[20:24])

	recHeader := make([]byte, 16)
	for {
		if _, err := io.ReadFull(br, recHeader); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("pcapextract: reading record header: %w", err)
		}
		capLen := order.Uint32(recHeader[8:12])
		data := make([]byte, capLen)
		if _, err := io.ReadFull(br, data); err != nil {
			return fmt.Errorf("pcapextract: reading packet data: %w", err)
		}
		if err := emit(RawPacket{LinkType: linkType, Data: data}); err != nil {
			return err
		}
	}
}

func classicByteOrder(magic uint32) (binary.ByteOrder, bool) {
	switch magic {
	case classicMagicLE:
		return binary.LittleEndian, false
	case classicMagicBE:
		return binary.BigEndian, false
	case classicMagicNanoLE:
		return binary.LittleEndian, true
	default:
		return binary.BigEndian, true
	}
}

// readPCAPNG walks a PCAPng capture's generic block structure: a
// Section Header Block establishes byte order, each Interface
// Description Block records that interface's link type, and Enhanced
// Packet / Simple Packet blocks carry frame data referencing an
// interface by index.
func readPCAPNG(br *bufio.Reader, emit func(RawPacket) error) error {
	var order binary.ByteOrder = binary.LittleEndian
	interfaces := map[uint32]uint32{}
	var nextIfaceID uint32

	for {
		blockType, body, order2, err := readPCAPNGBlock(br, order)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		order = order2

		switch blockType {
		case blockTypeSectionHeader:
			nextIfaceID = 0
		case blockTypeInterfaceDesc:
			if len(body) < 4 {
				continue
			}
			linkType := uint32(order.Uint16(body[0:2]))
			interfaces[nextIfaceID] = linkType
			nextIfaceID++
		case blockTypeEnhancedPacket:
			if len(body) < 20 {
				continue
			}
			ifaceID := order.Uint32(body[0:4])
			capLen := order.Uint32(body[12:16])
			if int(20+capLen) > len(body) {
				continue
			}
			data := body[20 : 20+capLen]
			if err := emit(RawPacket{LinkType: interfaces[ifaceID], Data: data}); err != nil {
				return err
			}
		case blockTypeSimplePacket:
			if len(body) < 4 {
				continue
			}
			data := body[4:]
			if err := emit(RawPacket{LinkType: interfaces[0], Data: data}); err != nil {
				return err
			}
		}
	}
}

// readPCAPNGBlock reads one generic PCAPng block: Block Type (4),
// Block Total Length (4), body, Block Total Length repeated (4). The
// Section Header Block's byte-order magic (0x1a2b3c4d) determines
// which byte order the rest of the section uses.
func readPCAPNGBlock(br *bufio.Reader, order binary.ByteOrder) (uint32, []byte, binary.ByteOrder, error) {
	head := make([]byte, 8)
	if _, err := io.ReadFull(br, head); err != nil {
		return 0, nil, order, err
	}

	blockType := binary.BigEndian.Uint32(head[0:4])
	if blockType == blockTypeSectionHeader {
		bomBytes := make([]byte, 4)
		if _, err := io.ReadFull(br, bomBytes); err != nil {
			return 0, nil, order, fmt.Errorf("pcapextract: reading byte-order magic: %w", err)
		}
		if binary.BigEndian.Uint32(bomBytes) == 0x1a2b3c4d {
			order = binary.BigEndian
		} else {
			order = binary.LittleEndian
		}
		totalLen := order.Uint32(head[4:8])
		if totalLen < 12 {
			return 0, nil, order, fmt.Errorf("pcapextract: section header block too short")
		}
		rest := make([]byte, totalLen-12)
		if _, err := io.ReadFull(br, rest); err != nil {
			return 0, nil, order, fmt.Errorf("pcapextract: reading section header body: %w", err)
		}
		body := append(bomBytes, rest[:len(rest)-4]...)
		return blockType, body, order, nil
	}

	blockType = order.Uint32(head[0:4])
	totalLen := order.Uint32(head[4:8])
	if totalLen < 12 {
		return 0, nil, order, fmt.Errorf("pcapextract: block too short")
	}
	rest := make([]byte, totalLen-8)
	if _, err := io.ReadFull(br, rest); err != nil {
		return 0, nil, order, fmt.Errorf("pcapextract: reading block body: %w", err)
	}
	body := rest[:len(rest)-4]
	return blockType, body, order, nil
}

// TCPSegment is one decoded IPv4/TCP segment pulled out of an
// Ethernet frame.
type TCPSegment struct {
	Src, Dst     [4]byte
	SPort, DPort uint16
	Seq          uint32
	Payload      []byte
}

// DecodeEthernetIPv4TCP parses an Ethernet(II) frame carrying an IPv4
// datagram carrying a TCP segment, returning ok=false for anything
// else (ARP, IPv6, UDP, non-TCP IP protocols, truncated frames) --
// matching pcap2fix/src/main.rs's handle_sliced_packet, which only
// acts on IPv4+TCP.
func DecodeEthernetIPv4TCP(frame []byte) (TCPSegment, bool) {
	const (
		ethHeaderLen  = 14
		ethTypeIPv4   = 0x0800
		ipProtocolTCP = 6
	)

	if len(frame) < ethHeaderLen+20+20 {
		return TCPSegment{}, false
	}
	etherType := binary.BigEndian.Uint16(frame[12:14])
	offset := ethHeaderLen
	if etherType == 0x8100 { // 802.1Q VLAN tag
		if len(frame) < offset+4+20+20 {
			return TCPSegment{}, false
		}
		etherType = binary.BigEndian.Uint16(frame[offset+2 : offset+4])
		offset += 4
	}
	if etherType != ethTypeIPv4 {
		return TCPSegment{}, false
	}

	ipHeader := frame[offset:]
	if len(ipHeader) < 20 {
		return TCPSegment{}, false
	}
	versionIHL := ipHeader[0]
	ihl := int(versionIHL&0x0f) * 4
	if ihl < 20 || len(ipHeader) < ihl {
		return TCPSegment{}, false
	}
	protocol := ipHeader[9]
	if protocol != ipProtocolTCP {
		return TCPSegment{}, false
	}
	totalLen := int(binary.BigEndian.Uint16(ipHeader[2:4]))
	var src, dst [4]byte
	copy(src[:], ipHeader[12:16])
	copy(dst[:], ipHeader[16:20])

	if totalLen > len(ipHeader) || totalLen < ihl {
		totalLen = len(ipHeader)
	}
	tcpSegment := ipHeader[ihl:totalLen]
	if len(tcpSegment) < 20 {
		return TCPSegment{}, false
	}

	sport := binary.BigEndian.Uint16(tcpSegment[0:2])
	dport := binary.BigEndian.Uint16(tcpSegment[2:4])
	seq := binary.BigEndian.Uint32(tcpSegment[4:8])
	dataOffset := int(tcpSegment[12]>>4) * 4
	if dataOffset < 20 || dataOffset > len(tcpSegment) {
		return TCPSegment{}, false
	}
	payload := tcpSegment[dataOffset:]

	return TCPSegment{Src: src, Dst: dst, SPort: sport, DPort: dport, Seq: seq, Payload: payload}, true
}
