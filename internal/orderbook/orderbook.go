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

// Package orderbook implements the streaming Order Aggregator: it
// associates FIX messages sharing an order identity, reconstructs
// lifecycle states, and renders a compact summary.
//
// Grounded on original_source/src/decoder/summary.rs
// (OrderSummary::record_message / resolve_key / absorb_fields /
// derive_state / OrderRecord::is_terminal) for lifecycle semantics, and
// on the teacher's fixclient/orderstore.go for Go structure and
// concurrency idiom: an RWMutex-guarded store with a defensive copy on
// every read.
package orderbook

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/coinbase-samples/fixdecode-go/internal/fixtag"
	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/tokenizer"
)

// OrderEvent is one message's contribution to an order's lifecycle.
type OrderEvent struct {
	Time          string
	MsgType       string
	MsgTypeDesc   string
	ExecType      string
	OrdStatus     string
	ExecAckStatus string
	State         string
	CumQty        string
	LeavesQty     string
	LastQty       string
	LastPx        string
	AvgPx         string
	Text          string
	ClOrdID       string
	OrigClOrdID   string
}

// OrderRecord accumulates every field absorbed across an order's
// message history, plus its lifecycle timeline.
type OrderRecord struct {
	Key           string
	OrderID       string
	ClOrdID       string
	OrigClOrdID   string
	Symbol        string
	Side          string
	OrderQty      string
	CumQty        string
	LeavesQty     string
	LastQty       string
	Price         string
	AvgPx         string
	SpotRate      string
	OrdType       string
	TimeInForce   string
	TradeDate     string
	SettlDate     string
	SettlDate2    string
	Currency      string
	BNSeen        bool
	BNExecAmt     string
	Events        []OrderEvent
	Messages      []string
}

func newRecord(key string) *OrderRecord {
	return &OrderRecord{Key: key}
}

// StatePath returns the record's sequence of derived states with
// consecutive duplicates collapsed, and a leading "Unknown" trimmed
// once a real state appears -- matching summary.rs's state_path.
func (r *OrderRecord) StatePath() []string {
	var path []string
	for _, e := range r.Events {
		if len(path) > 0 && path[len(path)-1] == e.State {
			continue
		}
		path = append(path, e.State)
	}
	for len(path) > 1 && path[0] == "Unknown" {
		path = path[1:]
	}
	return path
}

// IsTerminal reports whether the record has reached a closing state,
// per spec.md §4.G.
func (r *OrderRecord) IsTerminal() bool {
	path := r.StatePath()
	if len(path) > 0 && fixtag.TerminalOrdStates[path[len(path)-1]] {
		return true
	}
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].ExecAckStatus == "" {
			continue
		}
		return fixtag.TerminalExecAckStatuses[r.Events[i].ExecAckStatus]
	}
	return false
}

// DisplayID returns OrderID, else ClOrdID, else the synthetic key.
func (r *OrderRecord) DisplayID() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	if r.ClOrdID != "" {
		return r.ClOrdID
	}
	return r.Key
}

// Aggregator is the concurrency-safe streaming order book: a single
// writer goroutine feeds it messages via RecordMessage, and any number
// of readers may call Snapshot (and so RenderSummary) concurrently.
type Aggregator struct {
	mu             sync.RWMutex
	orders         map[string]*OrderRecord
	aliases        map[string]string
	completed      []*OrderRecord
	totalOrders    int
	terminalOrders int
	unknownCounter int
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		orders:  make(map[string]*OrderRecord),
		aliases: make(map[string]string),
	}
}

// RecordMessage absorbs one FIX message into the aggregator, resolving
// its order identity, merging any new aliases, appending an OrderEvent,
// and moving the record to the completed bucket if it just became
// terminal.
func (a *Aggregator) RecordMessage(msg string, lookup *registry.LayeredLookup) {
	fields := tokenizer.ParseFIX(msg)
	values := tokenizer.FieldMap(fields)

	orderID := values[fixtag.TagOrderID]
	clOrdID := values[fixtag.TagClOrdID]
	origClOrdID := values[fixtag.TagOrigClOrdID]
	msgType := values[fixtag.TagMsgType]

	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.resolveKey(orderID, clOrdID, origClOrdID)
	a.noteAliases(key, orderID, clOrdID, origClOrdID)

	record, existsActive := a.orders[key]
	if !existsActive {
		record = a.reviveOrCreate(key)
	}

	record.Messages = append(record.Messages, msg)
	mergeID(&record.OrderID, orderID)
	mergeID(&record.ClOrdID, clOrdID)
	mergeID(&record.OrigClOrdID, origClOrdID)

	byTag := make(map[string]string, len(values))
	for tag, value := range values {
		byTag[itoa(tag)] = value
	}
	absorbFields(record, byTag, msgType)

	event := buildEvent(byTag, msgType, lookup)
	record.Events = append(record.Events, event)

	if record.IsTerminal() {
		delete(a.orders, key)
		a.completed = append(a.completed, record)
		a.terminalOrders++
	} else {
		a.orders[key] = record
	}
}

// reviveOrCreate finds key in the completed bucket (a late amendment
// re-opening a closed order) or allocates a fresh record, matching
// summary.rs's record_message re-appearance handling.
func (a *Aggregator) reviveOrCreate(key string) *OrderRecord {
	for i, rec := range a.completed {
		if rec.Key == key {
			a.completed = append(a.completed[:i], a.completed[i+1:]...)
			a.terminalOrders--
			return rec
		}
	}
	a.totalOrders++
	return newRecord(key)
}

func (a *Aggregator) resolveKey(orderID, clOrdID, origClOrdID string) string {
	for _, id := range []string{orderID, clOrdID, origClOrdID} {
		if id == "" {
			continue
		}
		if key, ok := a.aliases[id]; ok {
			return key
		}
	}
	if orderID != "" {
		return orderID
	}
	if clOrdID != "" {
		return clOrdID
	}
	a.unknownCounter++
	return fmt.Sprintf("UNKNOWN-%d", a.unknownCounter)
}

func (a *Aggregator) noteAliases(key, orderID, clOrdID, origClOrdID string) {
	for _, id := range []string{orderID, clOrdID, origClOrdID} {
		if id == "" {
			continue
		}
		if _, ok := a.aliases[id]; !ok {
			a.aliases[id] = key
		}
	}
}

func mergeID(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// absorbFields copies whichever fields the message carries into record:
// a non-empty value replaces whatever an earlier message stored, and a
// field the message lacks keeps its earlier value.
func absorbFields(r *OrderRecord, v map[string]string, msgType string) {
	setIfPresent(&r.Symbol, v[itoa(fixtag.TagSymbol)])
	setIfPresent(&r.Side, v[itoa(fixtag.TagSide)])
	setIfPresent(&r.Currency, v[itoa(fixtag.TagCurrency)])
	setIfPresent(&r.OrderQty, v[itoa(fixtag.TagOrderQty)])
	setIfPresent(&r.CumQty, v[itoa(fixtag.TagCumQty)])
	setIfPresent(&r.LeavesQty, v[itoa(fixtag.TagLeavesQty)])
	setIfPresent(&r.AvgPx, v[itoa(fixtag.TagAvgPx)])
	setIfPresent(&r.Price, v[itoa(fixtag.TagPrice)])
	setIfPresent(&r.OrdType, v[itoa(fixtag.TagOrdType)])
	setIfPresent(&r.TimeInForce, v[itoa(fixtag.TagTimeInForce)])
	setIfPresent(&r.TradeDate, v[itoa(fixtag.TagTradeDate)])
	setIfPresent(&r.SettlDate, v[itoa(fixtag.TagSettlDate)])
	setIfPresent(&r.SettlDate2, v[itoa(fixtag.TagSettlDate2)])
	if v[itoa(fixtag.TagLastShares)] != "" {
		r.LastQty = v[itoa(fixtag.TagLastShares)]
	}

	if msgType == fixtag.MsgTypeBlockNotice {
		r.BNSeen = true
		setIfPresent(&r.SpotRate, v[itoa(fixtag.TagLastPx)])
		if v[itoa(fixtag.TagOrderQty)] != "" {
			r.BNExecAmt = v[itoa(fixtag.TagOrderQty)]
		}
	}
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// buildEvent constructs an OrderEvent from one message's fields.
//
// Time precedence is an explicit deviation from
// original_source/src/decoder/summary.rs, which prefers
// TransactTime(60) over SendingTime(52); spec.md's prose says "from
// SendingTime or TransactTime", so SendingTime wins here (see
// DESIGN.md).
func buildEvent(v map[string]string, msgType string, lookup *registry.LayeredLookup) OrderEvent {
	event := OrderEvent{
		MsgType:     msgType,
		ExecType:    v[itoa(fixtag.TagExecType)],
		OrdStatus:   v[itoa(fixtag.TagOrdStatus)],
		ExecAckStatus: v[itoa(fixtag.TagExecAckStatus)],
		CumQty:      v[itoa(fixtag.TagCumQty)],
		LeavesQty:   v[itoa(fixtag.TagLeavesQty)],
		LastQty:     v[itoa(fixtag.TagLastShares)],
		LastPx:      v[itoa(fixtag.TagLastPx)],
		AvgPx:       v[itoa(fixtag.TagAvgPx)],
		Text:        v[itoa(fixtag.TagText)],
		ClOrdID:     v[itoa(fixtag.TagClOrdID)],
		OrigClOrdID: v[itoa(fixtag.TagOrigClOrdID)],
	}
	if t := v[itoa(fixtag.TagSendingTime)]; t != "" {
		event.Time = t
	} else {
		event.Time = v[itoa(fixtag.TagTransactTime)]
	}
	if desc, ok := lookup.EnumDescription(fixtag.TagMsgType, msgType); ok {
		event.MsgTypeDesc = desc
	}
	event.State = deriveState(event.OrdStatus, event.ExecType, event.ExecAckStatus, event.LeavesQty)
	return event
}

// deriveState implements spec.md §4.G's state derivation priority
// chain: OrdStatus label, else ExecType label, else ExecAckStatus
// label, else "Filled" when LeavesQty is exactly zero, else "Unknown".
func deriveState(ordStatus, execType, execAckStatus, leavesQty string) string {
	if label, ok := fixtag.OrdStatusLabel(ordStatus); ok {
		return label
	}
	if label, ok := fixtag.ExecTypeLabel(execType); ok {
		return label
	}
	if label, ok := fixtag.ExecAckStatusLabel(execAckStatus); ok {
		return label
	}
	if leavesQty != "" {
		if d, err := decimal.NewFromString(leavesQty); err == nil && d.IsZero() {
			return "Filled"
		}
	}
	return "Unknown"
}

func itoa(tag int) string {
	return fmt.Sprintf("%d", tag)
}

// Snapshot returns a defensive copy of every active and completed
// record, for rendering without holding the aggregator's lock.
func (a *Aggregator) Snapshot() (active []OrderRecord, completed []OrderRecord, totalOrders, terminalOrders int) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, r := range a.orders {
		active = append(active, *r)
	}
	for _, r := range a.completed {
		completed = append(completed, *r)
	}
	return active, completed, a.totalOrders, a.terminalOrders
}
