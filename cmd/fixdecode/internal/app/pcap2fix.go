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

package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/pcapextract"
)

// newPcap2FixCommand extracts FIX messages from a PCAP/PCAPng capture,
// mirroring original_source/pcap2fix/src/main.rs's CLI surface: an
// input path (or "-" for stdin), an optional port filter, and
// reassembly limits.
func newPcap2FixCommand(ctx *Context) *cobra.Command {
	var port int
	var maxFlowBytes int
	var idleTimeoutSeconds int

	cmd := &cobra.Command{
		Use:   "pcap2fix [file]",
		Short: "Extract FIX messages from a PCAP or PCAPng capture",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("pcap2fix: opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			opts := pcapextract.DefaultOptions()
			opts.Port = uint16(port)
			opts.MaxFlowBytes = maxFlowBytes
			opts.IdleTimeout = time.Duration(idleTimeoutSeconds) * time.Second

			out := cmd.OutOrStdout()
			return pcapextract.Extract(r, opts, func(msg []byte) error {
				_, err := out.Write(append(msg, '\n'))
				return err
			}, func(flow string, err error) {
				ctx.Log.Warn().Str("flow", flow).Err(err).Msg("reassembly diagnostic")
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "restrict extraction to this TCP port on either side (0 = unfiltered)")
	cmd.Flags().IntVar(&maxFlowBytes, "max-flow-bytes", 1<<20, "per-flow reassembly buffer cap before an overflow diagnostic fires")
	cmd.Flags().IntVar(&idleTimeoutSeconds, "idle-timeout", 60, "seconds of inactivity before a flow is evicted")
	return cmd
}
