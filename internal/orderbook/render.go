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

package orderbook

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// RenderSummary writes a compact table of every active and completed
// record to out: one row per order, with an ExecAmt column that only
// appears once a Block Notice (MsgType=BN) has been seen on any order
// -- matching summary.rs's dynamic-column behavior, which spec.md only
// summarizes (see SPEC_FULL.md).
func RenderSummary(out io.Writer, a *Aggregator) {
	active, completed, total, terminal := a.Snapshot()

	anyBN := false
	for _, r := range append(append([]OrderRecord{}, active...), completed...) {
		if r.BNSeen {
			anyBN = true
		}
	}

	header := []string{"Key", "Side", "Symbol", "Qty", "Price", "State"}
	if anyBN {
		header = append(header, "SpotRate", "ExecAmt")
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader(header)

	all := append(append([]OrderRecord{}, completed...), active...)
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })

	for _, r := range all {
		path := r.StatePath()
		state := "Unknown"
		if len(path) > 0 {
			state = path[len(path)-1]
		}
		row := []string{r.DisplayID(), r.Side, r.Symbol, r.OrderQty, r.Price, state}
		if anyBN {
			row = append(row, r.SpotRate, r.BNExecAmt)
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(out, "Order Summary (%d open, %d total, to fill: %d/%d)\n",
		len(active), total, len(active), total)
	_ = terminal
}

// RenderTimeline writes one order's event history as a table: time,
// message type, exec/ord status, cum/leaves qty, last@price, avgPx,
// and free text -- grounded on summary.rs's render_timeline.
func RenderTimeline(out io.Writer, r *OrderRecord) {
	table := tablewriter.NewWriter(out)
	header := []string{"Time", "Msg", "ExecType", "OrdStatus"}
	if r.BNSeen {
		header = append(header, "ExecAckStatus")
	}
	header = append(header, "Cum/Leaves", "Last@Px", "AvgPx", "Text")
	table.SetHeader(header)

	for _, e := range r.Events {
		row := []string{e.Time, msgCell(e), e.ExecType, e.OrdStatus}
		if r.BNSeen {
			row = append(row, e.ExecAckStatus)
		}
		row = append(row, fmt.Sprintf("%s/%s", e.CumQty, e.LeavesQty),
			fmt.Sprintf("%s@%s", e.LastQty, e.LastPx), e.AvgPx, e.Text)
		table.Append(row)
	}
	table.Render()
}

func msgCell(e OrderEvent) string {
	if e.MsgTypeDesc == "" {
		return e.MsgType
	}
	return fmt.Sprintf("%s (%s)", e.MsgType, e.MsgTypeDesc)
}

// FlowPath renders a record's collapsed state path as an arrow-joined
// string, e.g. "New -> Partially Filled -> Filled".
func FlowPath(r *OrderRecord) string {
	return strings.Join(r.StatePath(), " -> ")
}
