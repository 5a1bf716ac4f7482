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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coinbase-samples/fixdecode-go/internal/prettify"
	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/streamdriver"
	"github.com/coinbase-samples/fixdecode-go/internal/validate"
)

// newPrettifyCommand renders each message with or without inline
// validation annotations (--validate toggles whether the Validator
// runs at all), writing a line of dashes after each message sized to
// the caller's terminal width, per SPEC_FULL.md's golang.org/x/term
// wiring grounded in prettifier.rs's terminal_width().
func newPrettifyCommand(ctx *Context) *cobra.Command {
	flags := &sharedFlags{}

	cmd := &cobra.Command{
		Use:   "prettify [file ...]",
		Short: "Render FIX messages in canonical field order, one block per message",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := flags.loadLookup(ctx)
			if err != nil {
				return err
			}

			width := terminalWidth()
			out := cmd.OutOrStdout()

			return runOverInputs(args, func(r io.Reader) error {
				return renderEachFrame(r, lookup, flags.validate, width, out)
			})
		},
	}

	flags.bind(cmd)
	return cmd
}

func terminalWidth() int {
	if w, _, err := term.GetSize(0); err == nil && w > 0 {
		return w
	}
	return 80
}

func renderEachFrame(r io.Reader, lookup *registry.LayeredLookup, doValidate bool, width int, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		for _, msg := range streamdriver.ExtractFrames(scanner.Text()) {
			var report *validate.Report
			if doValidate {
				report = validate.Validate(msg, lookup)
			}
			fmt.Fprint(out, prettify.Render(msg, lookup, report))
			fmt.Fprintln(out, strings.Repeat("-", width))
		}
	}
	return scanner.Err()
}
