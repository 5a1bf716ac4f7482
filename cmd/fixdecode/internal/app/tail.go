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
	"os"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/streamdriver"
)

// newTailCommand implements the tail-follow mode spec.md §4.F
// describes, plus an --interactive replay mode adapted from the
// teacher's fixclient/repl.go completer-loop idiom: instead of
// dispatching FIX session commands, each entered line is fed straight
// through the Stream Driver and rendered.
func newTailCommand(ctx *Context) *cobra.Command {
	flags := &sharedFlags{}
	var follow bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "tail [file]",
		Short: "Stream-decode a file, following new lines like tail -f",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := flags.loadLookup(ctx)
			if err != nil {
				return err
			}

			if interactive {
				return runInteractive(lookup)
			}

			var cancel atomic.Bool
			driver := streamdriver.New(streamdriver.Options{
				Lookup: lookup,
				Follow: follow,
				Cancel: &cancel,
			})

			return runOverInputs(args, func(r io.Reader) error {
				return driver.Run(r, cmd.OutOrStdout())
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&follow, "follow", false, "keep polling for new lines after EOF, like tail -f")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "read and render lines from an interactive readline prompt")
	return cmd
}

// runInteractive reads lines from a readline prompt, one FIX message
// at a time, rendering each as it's entered -- the teacher's
// Repl()/readline.NewEx setup, generalized from FIX-session commands
// to replaying raw message lines.
func runInteractive(lookup *registry.LayeredLookup) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fixdecode> ",
		HistoryFile:     "/tmp/fixdecode_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("tail --interactive: %w", err)
	}
	defer rl.Close()

	driver := streamdriver.New(streamdriver.Options{Lookup: lookup})

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		if err := driver.Run(strings.NewReader(line), os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
