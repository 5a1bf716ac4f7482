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
	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/registry"
)

// sharedFlags holds the persistent flags every decode-style subcommand
// binds, mirroring the Rust CLI's Args structs in
// original_source/src/main.rs and original_source/pcap2fix/src/main.rs.
type sharedFlags struct {
	dictionary string
	schemaKey  string
	validate   bool
	redact     bool
}

func (f *sharedFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dictionary, "dictionary", "", "path to a FIX dictionary XML file (required)")
	cmd.Flags().StringVar(&f.schemaKey, "schema", "FIX44", "schema key to register the dictionary under (e.g. FIX44, FIXT11)")
	cmd.Flags().BoolVar(&f.validate, "validate", true, "annotate output with structural validation (read by prettify only; the other commands always validate)")
	cmd.Flags().BoolVar(&f.redact, "redact", false, "obfuscate sensitive tag values in rendered output (read by decode only)")
}

func (f *sharedFlags) loadLookup(ctx *Context) (*registry.LayeredLookup, error) {
	key := registry.Key(f.schemaKey)
	if err := ctx.LoadDictionary(f.dictionary, key); err != nil {
		return nil, err
	}
	return ctx.Lookup(key)
}

// Execute builds the root command and every subcommand, then runs it.
func Execute() error {
	ctx := NewContext()

	root := &cobra.Command{
		Use:   "fixdecode",
		Short: "Decode, validate, and prettify FIX message streams",
		Long: "fixdecode renders raw FIX protocol traffic against a dictionary, " +
			"reports structural validation errors, aggregates order lifecycles, " +
			"and extracts FIX messages from packet captures.",
		SilenceUsage: true,
	}

	root.AddCommand(
		newDecodeCommand(ctx),
		newValidateCommand(ctx),
		newPrettifyCommand(ctx),
		newOrdersCommand(ctx),
		newPcap2FixCommand(ctx),
		newTailCommand(ctx),
	)

	return root.Execute()
}
