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

package schema

import (
	"fmt"
	"io"
)

// Compile reads a FIX dictionary XML document and produces an
// immutable Schema. Component and group expansion follows
// original_source/src/decoder/schema.rs's ComponentBuilder: components
// are expanded depth-first with a name stack that breaks cycles instead
// of recursing forever: a recursive reference is skipped and that branch
// stops. The warning hook (compiler.warnf) is a no-op, so nothing is
// logged when this happens.
func Compile(r io.Reader) (*Schema, error) {
	raw, err := decodeXML(r)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		fieldsByName: make(map[string]int, len(raw.Fields)),
		fieldDefs:    make(map[int]Field, len(raw.Fields)),
		components:   make(map[string]rawComponentDef, len(raw.Components)),
		groups:       make(map[int]GroupDef),
		repeatable:   make(map[int]bool),
		warnf:        func(string, ...any) {},
	}

	for _, f := range raw.Fields {
		field := Field{Tag: f.Number, Name: f.Name, Type: f.Type}
		if len(f.Values) > 0 {
			field.Enums = make(map[string]string, len(f.Values))
			for _, v := range f.Values {
				field.Enums[v.Enum] = v.Description
			}
		}
		c.fieldDefs[f.Number] = field
		c.fieldsByName[f.Name] = f.Number
	}
	for _, comp := range raw.Components {
		c.components[comp.Name] = comp
	}

	headerOrder, headerRequired, headerGroups := c.expand(raw.Header, map[string]bool{})
	trailerOrder, trailerRequired, trailerGroups := c.expand(raw.Trailer, map[string]bool{})

	messages := make(map[string]MessageDef, len(raw.Messages))
	for _, m := range raw.Messages {
		bodyOrder, bodyRequired, bodyGroups := c.expand(m.rawFieldGroup, map[string]bool{})

		order := make([]int, 0, len(headerOrder)+len(bodyOrder)+len(trailerOrder))
		order = append(order, headerOrder...)
		order = append(order, bodyOrder...)
		order = append(order, trailerOrder...)

		required := make(map[int]bool, len(headerRequired)+len(bodyRequired))
		for t := range headerRequired {
			required[t] = true
		}
		for t := range bodyRequired {
			required[t] = true
		}
		for t := range trailerRequired {
			required[t] = true
		}

		msgGroups := make(map[int]GroupDef, len(headerGroups)+len(bodyGroups)+len(trailerGroups))
		for tag, g := range headerGroups {
			msgGroups[tag] = g
		}
		for tag, g := range bodyGroups {
			msgGroups[tag] = g
		}
		for tag, g := range trailerGroups {
			msgGroups[tag] = g
		}

		messages[m.MsgType] = MessageDef{
			Name:       m.Name,
			MsgType:    m.MsgType,
			FieldOrder: dedupe(order),
			Required:   required,
			Groups:     msgGroups,
		}
	}

	version := fmt.Sprintf("FIX.%s.%s", raw.Major, raw.Minor)
	if raw.Servicepack != "" && raw.Servicepack != "0" {
		version += "SP" + raw.Servicepack
	}

	return &Schema{
		Version:        version,
		Fields:         c.fieldDefs,
		FieldsByName:   c.fieldsByName,
		Messages:       messages,
		Groups:         c.groups,
		RepeatableTags: c.repeatable,
	}, nil
}

type compiler struct {
	fieldsByName map[string]int
	fieldDefs    map[int]Field
	components   map[string]rawComponentDef
	groups       map[int]GroupDef // accumulated across the whole schema
	repeatable   map[int]bool
	warnf        func(string, ...any)
}

// expand walks one field group (header, trailer, message body, or
// component body) and returns its field order, required-tag set, and
// any repeating groups it contains, directly or via nested components.
// stack holds component names currently being expanded, to detect
// recursive component references.
func (c *compiler) expand(fg rawFieldGroup, stack map[string]bool) ([]int, map[int]bool, map[int]GroupDef) {
	var order []int
	required := make(map[int]bool)
	groups := make(map[int]GroupDef)

	for _, f := range fg.Fields {
		tag, ok := c.fieldsByName[f.Name]
		if !ok {
			continue
		}
		order = append(order, tag)
		if f.Required == "Y" {
			required[tag] = true
		}
	}

	for _, ref := range fg.Components {
		if stack[ref.Name] {
			c.warnf("recursive component detected at %s, skipping", ref.Name)
			continue
		}
		comp, ok := c.components[ref.Name]
		if !ok {
			continue
		}
		nextStack := make(map[string]bool, len(stack)+1)
		for k := range stack {
			nextStack[k] = true
		}
		nextStack[ref.Name] = true

		compOrder, compRequired, compGroups := c.expand(rawFieldGroup{
			Fields:     comp.Fields,
			Groups:     comp.Groups,
			Components: comp.Components,
		}, nextStack)

		// ComponentRef's own required="Y" attribute is never propagated
		// to member fields -- schema.rs leaves it unused and only
		// per-field required="Y" counts.
		order = append(order, compOrder...)
		for t := range compRequired {
			required[t] = true
		}
		for tag, g := range compGroups {
			groups[tag] = g
		}
	}

	for _, g := range fg.Groups {
		countTag, ok := c.fieldsByName[g.Name]
		if !ok {
			continue
		}
		order = append(order, countTag)
		c.repeatable[countTag] = true
		if g.Required == "Y" {
			required[countTag] = true
		}

		entryOrder, entryRequired, nestedGroups := c.expand(rawFieldGroup{
			Fields:     g.Fields,
			Groups:     g.Groups,
			Components: g.Components,
		}, stack)
		entryOrder = dedupe(entryOrder)

		order = append(order, entryOrder...)
		for t := range entryRequired {
			required[t] = true
		}

		def := GroupDef{Name: g.Name, CountTag: countTag, EntryTags: entryOrder}
		groups[countTag] = def
		c.groups[countTag] = def

		for _, t := range entryOrder {
			c.repeatable[t] = true
		}
		for tag, nested := range nestedGroups {
			groups[tag] = nested
			c.repeatable[tag] = true
		}
	}

	return order, required, groups
}

func dedupe(tags []int) []int {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[int]bool, len(tags))
	out := make([]int, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
