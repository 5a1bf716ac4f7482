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

func TestExtract_EndToEndFromClassicPCAP(t *testing.T) {
	var buf bytes.Buffer

	global := make([]byte, 24)
	binary.LittleEndian.PutUint32(global[0:4], classicMagicLE)
	binary.LittleEndian.PutUint32(global[20:24], linkTypeEthernet)
	buf.Write(global)

	msg := buildFIXMessage(t)
	frame := buildEthernetIPv4TCP(t, [4]byte{1, 1, 1, 1}, [4]byte{2, 2, 2, 2}, 9001, 9002, 500, msg)
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(frame)))
	binary.LittleEndian.PutUint32(rec[12:16], uint32(len(frame)))
	buf.Write(rec)
	buf.Write(frame)

	var emitted [][]byte
	opts := DefaultOptions()
	err := Extract(&buf, opts, func(m []byte) error {
		emitted = append(emitted, m)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitted) != 1 || string(emitted[0]) != string(msg) {
		t.Fatalf("expected one extracted message, got %v", emitted)
	}
}

func TestExtract_PortFilterExcludesOtherFlows(t *testing.T) {
	var buf bytes.Buffer
	global := make([]byte, 24)
	binary.LittleEndian.PutUint32(global[0:4], classicMagicLE)
	binary.LittleEndian.PutUint32(global[20:24], linkTypeEthernet)
	buf.Write(global)

	msg := buildFIXMessage(t)
	frame := buildEthernetIPv4TCP(t, [4]byte{1, 1, 1, 1}, [4]byte{2, 2, 2, 2}, 111, 222, 500, msg)
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(frame)))
	binary.LittleEndian.PutUint32(rec[12:16], uint32(len(frame)))
	buf.Write(rec)
	buf.Write(frame)

	var emitted [][]byte
	opts := DefaultOptions()
	opts.Port = 9999
	err := Extract(&buf, opts, func(m []byte) error {
		emitted = append(emitted, m)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitted) != 0 {
		t.Fatalf("expected no messages past the port filter, got %v", emitted)
	}
}
