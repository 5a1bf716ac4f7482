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

	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/streamdriver"
)

// newValidateCommand implements spec.md §4.F's validation-only mode:
// only messages whose report is non-clean produce output, each
// preceded by its line number.
func newValidateCommand(ctx *Context) *cobra.Command {
	flags := &sharedFlags{}

	cmd := &cobra.Command{
		Use:   "validate [file ...]",
		Short: "Report only the FIX messages that fail structural validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := flags.loadLookup(ctx)
			if err != nil {
				return err
			}

			driver := streamdriver.New(streamdriver.Options{
				Lookup:       lookup,
				ValidateOnly: true,
			})

			return runOverInputs(args, func(r io.Reader) error {
				return driver.Run(r, cmd.OutOrStdout())
			})
		},
	}

	flags.bind(cmd)
	return cmd
}
