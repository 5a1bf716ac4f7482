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
	"io"
	"time"
)

// Options configures one extraction run, mirroring pcap2fix/src/main.rs's
// clap Args: an optional TCP port filter (either side of the
// connection), the FIX field delimiter, and the reassembly limits.
type Options struct {
	Port         uint16 // 0 means unfiltered
	Delimiter    byte
	MaxFlowBytes int
	IdleTimeout  time.Duration
}

// DefaultOptions mirrors pcap2fix/src/main.rs's defaults.
func DefaultOptions() Options {
	return Options{
		Delimiter:    0x01,
		MaxFlowBytes: 1 << 20,
		IdleTimeout:  60 * time.Second,
	}
}

// Extract reads a PCAP or PCAPng capture from r, reassembles every
// IPv4/TCP flow it carries, and calls emit once per complete FIX
// message found inside. Overflow diagnostics are surfaced through
// onWarning rather than aborting extraction, matching the original
// tool's resilient, best-effort behavior.
func Extract(r io.Reader, opts Options, emit func(msg []byte) error, onWarning func(flow string, err error)) error {
	reassembler := NewReassembler(opts.Delimiter, opts.MaxFlowBytes, opts.IdleTimeout)

	err := ReadPackets(r, func(pkt RawPacket) error {
		reassembler.EvictIdle()
		if pkt.LinkType != linkTypeEthernet {
			return nil
		}
		seg, ok := DecodeEthernetIPv4TCP(pkt.Data)
		if !ok {
			return nil
		}
		if opts.Port != 0 && seg.SPort != opts.Port && seg.DPort != opts.Port {
			return nil
		}

		key := FlowKey{Src: seg.Src, Dst: seg.Dst, SPort: seg.SPort, DPort: seg.DPort}
		messages, ferr := reassembler.Feed(key, seg.Seq, seg.Payload)
		if ferr != nil {
			if onWarning != nil {
				onWarning(key.String(), ferr)
			}
			return nil
		}
		for _, m := range messages {
			if err := emit(m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, m := range reassembler.Flush() {
		if err := emit(m); err != nil {
			return err
		}
	}
	return nil
}
