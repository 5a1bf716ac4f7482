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

// Package app wires the CLI's shared state -- the dictionary registry
// and the logger -- the way the teacher threads *FixApp through every
// command handler in fixclient/fixapp.go, generalized away from a live
// FIX session into a stateless decode/validate context.
package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/coinbase-samples/fixdecode-go/internal/reporterr"
	"github.com/coinbase-samples/fixdecode-go/internal/registry"
	"github.com/coinbase-samples/fixdecode-go/internal/schema"
)

// Context carries the pieces every subcommand needs.
type Context struct {
	Log      zerolog.Logger
	Registry *registry.Registry
}

// NewContext builds a Context with a console-friendly zerolog writer,
// per SPEC_FULL.md's Ambient Stack section.
func NewContext() *Context {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return &Context{
		Log:      log,
		Registry: registry.New(),
	}
}

// LoadDictionary compiles the dictionary XML at path and registers it
// under key. A SetupError is returned on unparsable XML, matching
// spec.md §7's fatal taxonomy entry for this failure.
func (c *Context) LoadDictionary(path string, key registry.Key) error {
	f, err := os.Open(path)
	if err != nil {
		return reporterr.Wrap(reporterr.Setup, fmt.Errorf("opening dictionary %s: %w", path, err))
	}
	defer f.Close()

	s, err := schema.Compile(f)
	if err != nil {
		return reporterr.Wrap(reporterr.Setup, fmt.Errorf("compiling dictionary %s: %w", path, err))
	}

	c.Registry.Register(key, s)
	c.Log.Info().Str("key", string(key)).Str("version", s.Version).Msg("dictionary loaded")
	return nil
}

// Lookup resolves key through the registry, returning a
// SchemaError-classified error if the key was never registered.
func (c *Context) Lookup(key registry.Key) (*registry.LayeredLookup, error) {
	lookup, err := c.Registry.Lookup(key)
	if err != nil {
		return nil, reporterr.Wrap(reporterr.Schema, err)
	}
	return lookup, nil
}
