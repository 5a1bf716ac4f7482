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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/obfuscate"
	"github.com/coinbase-samples/fixdecode-go/internal/orderbook"
	"github.com/coinbase-samples/fixdecode-go/internal/streamdriver"
)

func newDecodeCommand(ctx *Context) *cobra.Command {
	flags := &sharedFlags{}
	var summary bool

	cmd := &cobra.Command{
		Use:   "decode [file ...]",
		Short: "Render every FIX message in the given files (or stdin) against a dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := flags.loadLookup(ctx)
			if err != nil {
				return err
			}

			var agg *orderbook.Aggregator
			if summary {
				agg = orderbook.New()
			}

			var ob obfuscate.Obfuscator
			if flags.redact {
				ob = defaultRedactionObfuscator()
			}

			driver := streamdriver.New(streamdriver.Options{
				Lookup:     lookup,
				Obfuscator: ob,
				Aggregator: agg,
			})

			if err := runOverInputs(args, func(r io.Reader) error {
				return driver.Run(r, cmd.OutOrStdout())
			}); err != nil {
				return err
			}

			if agg != nil {
				orderbook.RenderSummary(cmd.OutOrStdout(), agg)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&summary, "summary", false, "also print an order lifecycle summary")
	return cmd
}

// runOverInputs calls fn once per input path, or once with os.Stdin
// when args is empty or "-" is given, matching spec.md §6's "one or
// more file paths, - for stdin" input surface.
func runOverInputs(args []string, fn func(io.Reader) error) error {
	if len(args) == 0 {
		return fn(os.Stdin)
	}
	for _, path := range args {
		if path == "-" {
			if err := fn(os.Stdin); err != nil {
				return err
			}
			continue
		}
		if err := func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			return fn(f)
		}(); err != nil {
			return err
		}
	}
	return nil
}

// defaultRedactionObfuscator redacts the common identity-bearing
// session tags (SenderCompID, TargetCompID, Account) when --redact is
// set, since spec.md explicitly leaves the policy undefined.
func defaultRedactionObfuscator() obfuscate.Obfuscator {
	return obfuscate.NewDefault(map[int]string{
		49: "SenderCompID",
		56: "TargetCompID",
		1:  "Account",
	})
}
