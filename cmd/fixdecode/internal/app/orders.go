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

	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/orderbook"
	"github.com/coinbase-samples/fixdecode-go/internal/streamdriver"
)

// newOrdersCommand feeds every message into the Order Aggregator and,
// at EOF, renders the summary table plus each record's timeline --
// spec.md §4.G's "Output" section.
func newOrdersCommand(ctx *Context) *cobra.Command {
	flags := &sharedFlags{}
	var showTimelines bool

	cmd := &cobra.Command{
		Use:   "orders [file ...]",
		Short: "Aggregate FIX messages into order lifecycles and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := flags.loadLookup(ctx)
			if err != nil {
				return err
			}

			agg := orderbook.New()
			driver := streamdriver.New(streamdriver.Options{
				Lookup:     lookup,
				Aggregator: agg,
			})

			if err := runOverInputs(args, func(r io.Reader) error {
				return driver.Run(r, io.Discard)
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			orderbook.RenderSummary(out, agg)

			if showTimelines {
				active, completed, _, _ := agg.Snapshot()
				for _, rec := range append(active, completed...) {
					fmt.Fprintf(out, "\n%s (%s)\n", rec.DisplayID(), orderbook.FlowPath(&rec))
					orderbook.RenderTimeline(out, &rec)
				}
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&showTimelines, "timelines", false, "also print each order's event timeline")
	return cmd
}
