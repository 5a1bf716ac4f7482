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

// Package fixtag holds the FIX tag numbers and enum value tables the
// decoder needs to resolve without consulting a dictionary: the
// header/trailer tags every schema shares, and the order-lifecycle
// enums the Order Aggregator interprets directly.
package fixtag

// Tag is a FIX tag number.
type Tag = int

// --- Standard FIX Tags ---
const (
	TagAccount      Tag = 1
	TagAvgPx        Tag = 6
	TagBeginString  Tag = 8
	TagBodyLength   Tag = 9
	TagCheckSum     Tag = 10
	TagClOrdID      Tag = 11
	TagCumQty       Tag = 14
	TagCurrency     Tag = 15
	TagExecID       Tag = 17
	TagExecInst     Tag = 18
	TagHandlInst    Tag = 21
	TagLastMkt      Tag = 30
	TagLastPx       Tag = 31
	TagLastShares   Tag = 32
	TagMsgSeqNum    Tag = 34
	TagMsgType      Tag = 35
	TagNewSeqNo     Tag = 36
	TagOrderID      Tag = 37
	TagOrderQty     Tag = 38
	TagOrdStatus    Tag = 39
	TagOrdType      Tag = 40
	TagOrigClOrdID  Tag = 41
	TagPossDupFlag  Tag = 43
	TagPrice        Tag = 44
	TagRefSeqNum    Tag = 45
	TagSenderCompID Tag = 49
	TagSenderSubID  Tag = 50
	TagSendingTime  Tag = 52
	TagSide         Tag = 54
	TagSymbol       Tag = 55
	TagTargetCompID Tag = 56
	TagText         Tag = 58
	TagTimeInForce  Tag = 59
	TagTransactTime Tag = 60
	TagSettlDate    Tag = 64
	TagTradeDate    Tag = 75
	TagOrdRejReason Tag = 103
	TagEncryptMethod Tag = 98
	TagHeartBtInt   Tag = 108
	TagTestReqID    Tag = 112
	TagOrigSendingTime Tag = 122
	TagGapFillFlag  Tag = 123
	TagResetSeqNumFlag Tag = 141
	TagLeavesQty    Tag = 151
	TagExecType     Tag = 150
	TagSettlDate2   Tag = 193
	TagSpotRate     Tag = 190
	TagRefTagID     Tag = 371
	TagRefMsgType   Tag = 372
	TagSessionRejectReason  Tag = 373
	TagBusinessRejectReason Tag = 380
	TagCxlRejReason Tag = 102
	TagCxlRejResponseTo Tag = 434
	TagApplVerID    Tag = 1128
	TagDefaultApplVerID Tag = 1137
	TagExecAckStatus Tag = 1036
)

// MsgType values the Order Aggregator and Validator special-case.
const (
	MsgTypeLogon            = "A"
	MsgTypeHeartbeat        = "0"
	MsgTypeTestRequest      = "1"
	MsgTypeResendRequest    = "2"
	MsgTypeReject           = "3"
	MsgTypeSequenceReset    = "4"
	MsgTypeLogout           = "5"
	MsgTypeExecutionReport  = "8"
	MsgTypeOrderCancelReject = "9"
	MsgTypeNewOrderSingle   = "D"
	MsgTypeOrderCancelRequest = "F"
	MsgTypeOrderCancelReplace = "G"
	MsgTypeBusinessReject   = "j"
	MsgTypeBlockNotice      = "BN"
)

// HeaderTags is the canonical session-header prefix: BeginString,
// BodyLength, MsgType, then the identity and timing fields. The
// Prettifier's ad-hoc order starts with the same tags and renders any
// that are absent as "Missing" placeholder lines.
var HeaderTags = []Tag{
	TagBeginString, TagBodyLength, TagMsgType,
	TagSenderCompID, TagTargetCompID, TagMsgSeqNum, TagSendingTime,
}

// TrailerTags is forced to the end regardless of encounter order.
var TrailerTags = []Tag{TagCheckSum}

// OrdStatusLabel maps OrdStatus (tag 39) to its display label, matching
// the FIX standard enum; the zero value ("", false) means unknown.
func OrdStatusLabel(value string) (string, bool) {
	label, ok := ordStatusLabels[value]
	return label, ok
}

var ordStatusLabels = map[string]string{
	"0": "New",
	"1": "Partially Filled",
	"2": "Filled",
	"3": "Done for Day",
	"4": "Canceled",
	"5": "Replaced",
	"6": "Pending Cancel",
	"7": "Stopped",
	"8": "Rejected",
	"9": "Suspended",
	"A": "Pending New",
	"B": "Calculated",
	"C": "Expired",
	"D": "Accepted for Bidding",
	"E": "Pending Replace",
}

// ExecTypeLabel maps ExecType (tag 150) to its display label.
func ExecTypeLabel(value string) (string, bool) {
	label, ok := execTypeLabels[value]
	return label, ok
}

var execTypeLabels = map[string]string{
	"0": "New",
	"1": "Partial Fill",
	"2": "Fill",
	"3": "Done for Day",
	"4": "Canceled",
	"5": "Replaced",
	"6": "Pending Cancel",
	"7": "Stopped",
	"8": "Rejected",
	"9": "Suspended",
	"A": "Pending New",
	"B": "Calculated",
	"C": "Expired",
	"D": "Restated",
	"E": "Pending Replace",
	"F": "Trade",
	"G": "Trade Correct",
	"H": "Trade Cancel",
	"I": "Order Status",
}

// ExecAckStatusLabel maps ExecAckStatus (tag 1036) to its display label.
func ExecAckStatusLabel(value string) (string, bool) {
	label, ok := execAckStatusLabels[value]
	return label, ok
}

var execAckStatusLabels = map[string]string{
	"0": "No Ack",
	"1": "Accept",
	"2": "Block Level Ack",
	"3": "Reject",
	"4": "Cancel",
}

// TerminalOrdStates is the set of OrdStatus-derived labels that close an
// order's lifecycle. This is domain-specific and not present anywhere
// in the FIX standard itself -- it is an Open Question in spec.md,
// resolved here the way original_source/src/decoder/summary.rs resolves
// it (OrderRecord::is_terminal).
var TerminalOrdStates = map[string]bool{
	"Filled":          true,
	"Canceled":        true,
	"Rejected":        true,
	"Done for Day":    true,
	"Expired":         true,
	"Stopped":         true,
	"Suspended":       true,
	"Calculated":      true,
}

// TerminalExecAckStatuses mirrors the Rust fallback: Reject(3)/Cancel(4)
// close a record even when OrdStatus/ExecType don't say so on their own,
// as does Accept(1) in the original's exact reverse-scan behavior.
var TerminalExecAckStatuses = map[string]bool{
	"1": true,
	"3": true,
	"4": true,
}
