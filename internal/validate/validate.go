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

// Package validate implements the FIX message structural validator:
// duplicate-tag detection, MsgType presence/validity, required-field
// closure, BodyLength and Checksum verification, enum-domain and
// primitive type-shape checks, and field-ordering checks.
//
// Grounded on original_source/src/decoder/validator.rs, with one
// addition: BodyLength validation (rule 5), which validator.rs omits
// but spec.md requires and prettifier.rs's own tests expect.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coinbase-samples/fixdecode-go/internal/fixtag"
	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/tokenizer"
)

const soh = "\x01"

// Report is a ValidationReport: a flat error list plus the same errors
// indexed by tag, for callers that only care about one field. A Report
// is Clean when it has no errors.
type Report struct {
	Errors  []string
	ByTag   map[int][]string
}

// Clean reports whether the message had no validation errors.
func (r *Report) Clean() bool {
	return len(r.Errors) == 0
}

func (r *Report) add(tag int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Errors = append(r.Errors, msg)
	if r.ByTag == nil {
		r.ByTag = make(map[int][]string)
	}
	r.ByTag[tag] = append(r.ByTag[tag], msg)
}

// Validate runs every structural check against msg using lookup to
// resolve message shape, enums, and types. All checks run regardless
// of earlier failures; errors accumulate into the returned Report.
func Validate(msg string, lookup *registry.LayeredLookup) *Report {
	report := &Report{}

	fields := tokenizer.ParseFIX(msg)
	seen := make(map[int]int, len(fields))
	for _, f := range fields {
		seen[f.Tag]++
	}

	msgType, hasMsgType := firstValue(fields, fixtag.TagMsgType)
	if !hasMsgType {
		report.add(fixtag.TagMsgType, "MsgType (35) is missing")
	}

	msgDef, known := lookup.MessageDef(msgType)
	if hasMsgType && !known {
		report.add(fixtag.TagMsgType, "MsgType (35) value %q does not resolve to a known message", msgType)
	}

	for tag, n := range seen {
		if n <= 1 {
			continue
		}
		if lookup.IsRepeatable(tag) {
			continue
		}
		report.add(tag, "tag %d (%s) appears %d times but is not repeatable", tag, lookup.FieldName(tag), n)
	}

	if known {
		for tag := range msgDef.Required {
			if _, ok := seen[tag]; !ok {
				report.add(tag, "required tag %d (%s) is missing", tag, lookup.FieldName(tag))
			}
		}
	}

	validateBodyLength(msg, report)
	validateChecksum(msg, report)

	for _, f := range fields {
		if lookup.HasEnumDomain(f.Tag) {
			if _, ok := lookup.EnumDescription(f.Tag, f.Value); !ok {
				report.add(f.Tag, "tag %d (%s) value %q is not a recognized enumeration value", f.Tag, lookup.FieldName(f.Tag), f.Value)
			}
			continue
		}
		if ft := lookup.FieldType(f.Tag); ft != "" && !isValidType(f.Value, ft) {
			report.add(f.Tag, "tag %d (%s) value %q is not valid for type %s", f.Tag, lookup.FieldName(f.Tag), f.Value, ft)
		}
	}

	if known {
		validateFieldOrdering(fields, msgDef.FieldOrder, report, lookup)
	}

	return report
}

func validateFieldOrdering(fields []tokenizer.FieldValue, canonical []int, report *Report, lookup *registry.LayeredLookup) {
	position := make(map[int]int, len(canonical))
	for i, tag := range canonical {
		position[tag] = i
	}

	last := -1
	for _, f := range fields {
		idx, ok := position[f.Tag]
		if !ok {
			continue
		}
		if idx < last {
			report.add(f.Tag, "tag %d (%s) is out of canonical order", f.Tag, lookup.FieldName(f.Tag))
			continue
		}
		last = idx
	}
}

func firstValue(fields []tokenizer.FieldValue, tag int) (string, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// validateBodyLength implements spec.md §4.D rule 5: tag 9 must be
// present, parse as a non-negative integer, and equal the actual byte
// count between the SOH after "9=<n>" and the SOH preceding "10=".
func validateBodyLength(msg string, report *Report) {
	bodyTagIdx := strings.Index(msg, soh+"9=")
	if bodyTagIdx < 0 && !strings.HasPrefix(msg, "9=") {
		report.add(fixtag.TagBodyLength, "BodyLength (9) is missing")
		return
	}
	start := 0
	if bodyTagIdx >= 0 {
		start = bodyTagIdx + 1
	}
	valueStart := start + len("9=")
	sohAfter := strings.Index(msg[valueStart:], soh)
	if sohAfter < 0 {
		report.add(fixtag.TagBodyLength, "BodyLength (9) is malformed")
		return
	}
	declaredStr := msg[valueStart : valueStart+sohAfter]
	declared, err := strconv.Atoi(declaredStr)
	if err != nil || declared < 0 {
		report.add(fixtag.TagBodyLength, "BodyLength (9) value %q is not a non-negative integer", declaredStr)
		return
	}

	bodyStart := valueStart + sohAfter + 1
	checksumIdx := strings.LastIndex(msg, soh+"10=")
	if checksumIdx < 0 || checksumIdx < bodyStart {
		report.add(fixtag.TagBodyLength, "BodyLength (9) cannot be verified: no Checksum (10) field found")
		return
	}
	actual := checksumIdx + 1 - bodyStart

	if declared != actual {
		report.add(fixtag.TagBodyLength, "BodyLength mismatch: got %d, expected %d", declared, actual)
	}
}

// validateChecksum implements spec.md §4.D rule 6.
func validateChecksum(msg string, report *Report) {
	checksumIdx := strings.LastIndex(msg, soh+"10=")
	if checksumIdx < 0 {
		report.add(fixtag.TagCheckSum, "Checksum (10) is missing")
		return
	}
	valueStart := checksumIdx + 1 + len("10=")
	rest := msg[valueStart:]
	sohIdx := strings.IndexByte(rest, soh[0])
	digits := rest
	if sohIdx >= 0 {
		digits = rest[:sohIdx]
	}
	if len(digits) != 3 {
		report.add(fixtag.TagCheckSum, "Checksum (10) value %q is not three digits", digits)
		return
	}
	declared, err := strconv.Atoi(digits)
	if err != nil {
		report.add(fixtag.TagCheckSum, "Checksum (10) value %q is not numeric", digits)
		return
	}

	var sum int
	for i := 0; i <= checksumIdx; i++ {
		sum += int(msg[i])
	}
	expected := sum % 256
	if declared != expected {
		report.add(fixtag.TagCheckSum, "Checksum mismatch: got %03d, expected %03d", declared, expected)
	}
}

var monthYearRegexp = regexp.MustCompile(`^\d{6}(\d{2}|(-\d{1,2})|(-?w[1-5]))?$`)

// isValidType checks a field's value against its declared FIX type,
// matching original_source/src/decoder/validator.rs's is_valid_type.
func isValidType(value, fieldType string) bool {
	switch strings.ToUpper(fieldType) {
	case "INT", "LENGTH", "NUMINGROUP", "SEQNUM", "DAYOFMONTH":
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case "FLOAT", "QTY", "PRICE", "PRICEOFFSET", "AMT", "PERCENTAGE":
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case "BOOLEAN":
		return value == "Y" || value == "N"
	case "CHAR":
		return len(value) == 1
	case "STRING", "DATA", "CURRENCY", "EXCHANGE", "COUNTRY",
		"MULTIPLEVALUESTRING", "MULTIPLESTRINGVALUE":
		return true
	case "UTCTIMESTAMP":
		return isValidTimestamp(value)
	case "UTCDATEONLY":
		_, err := time.Parse("20060102", value)
		return err == nil
	case "UTCTIMEONLY":
		return isValidTimeOnly(value)
	case "MONTHYEAR":
		return monthYearRegexp.MatchString(value)
	default:
		return true
	}
}

func isValidTimestamp(value string) bool {
	for _, layout := range []string{"20060102-15:04:05", "20060102-15:04:05.000"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func isValidTimeOnly(value string) bool {
	for _, layout := range []string{"15:04", "15:04:05", "15:04:05.000"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
