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

package registry

import "strings"

const soh = "\x01"

// DetectKey inspects a raw FIX message's BeginString (tag 8) and, for
// FIXT.1.1 transport, its ApplVerID/DefaultApplVerID (tag 1128/1137),
// to pick the dictionary key that should decode it. Grounded on
// detectSchemaKey in the fixtaglookup.go.go reference and
// original_source/src/decoder/tag_lookup.rs's detect_schema_key /
// appl_ver_to_schema.
func DetectKey(msg string) Key {
	begin, ok := rawTagValue(msg, "8")
	if !ok {
		return "FIX44"
	}

	if begin == "FIXT.1.1" {
		appl, _ := rawTagValue(msg, "1128")
		if appl == "" {
			appl, _ = rawTagValue(msg, "1137")
		}
		return applVerToSchema(appl)
	}

	return Key(strings.ReplaceAll(begin, ".", ""))
}

func applVerToSchema(appl string) Key {
	switch appl {
	case "0":
		return "FIX27"
	case "1":
		return "FIX30"
	case "2":
		return "FIX40"
	case "3":
		return "FIX41"
	case "4":
		return "FIX42"
	case "5":
		return "FIX43"
	case "6":
		return "FIX44"
	case "7":
		return "FIX50"
	case "8":
		return "FIX50SP1"
	case "9":
		return "FIX50SP2"
	default:
		return "FIX50"
	}
}

func rawTagValue(msg, tag string) (string, bool) {
	for _, fragment := range strings.Split(msg, soh) {
		if fragment == "" {
			continue
		}
		kv := strings.SplitN(fragment, "=", 2)
		if len(kv) == 2 && kv[0] == tag {
			return kv[1], true
		}
	}
	return "", false
}
