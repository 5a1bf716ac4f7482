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
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// rawDictionary mirrors the QuickFIX-style dictionary XML shape: a
// <fix> root with <fields>, <header>, <trailer>, <components>, and
// <messages>. Field/group/component references nest arbitrarily, so
// rawFieldGroup is reused for header, trailer, message bodies,
// component bodies, and group bodies alike.
type rawDictionary struct {
	XMLName    xml.Name          `xml:"fix"`
	Major      string            `xml:"major,attr"`
	Minor      string            `xml:"minor,attr"`
	Servicepack string           `xml:"servicepack,attr"`
	Fields     []rawField        `xml:"fields>field"`
	Header     rawFieldGroup     `xml:"header"`
	Trailer    rawFieldGroup     `xml:"trailer"`
	Components []rawComponentDef `xml:"components>component"`
	Messages   []rawMessage      `xml:"messages>message"`
}

type rawField struct {
	Name   string     `xml:"name,attr"`
	Number int        `xml:"number,attr"`
	Type   string     `xml:"type,attr"`
	Values []rawValue `xml:"value"`
}

type rawValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type rawFieldGroup struct {
	Fields     []rawFieldRef     `xml:"field"`
	Groups     []rawGroupRef     `xml:"group"`
	Components []rawComponentRef `xml:"component"`
}

type rawFieldRef struct {
	Name     string `xml:"name,attr"`
	Required string `xml:"required,attr"`
}

type rawComponentRef struct {
	Name     string `xml:"name,attr"`
	Required string `xml:"required,attr"`
}

type rawGroupRef struct {
	Name       string            `xml:"name,attr"`
	Required   string            `xml:"required,attr"`
	Fields     []rawFieldRef     `xml:"field"`
	Groups     []rawGroupRef     `xml:"group"`
	Components []rawComponentRef `xml:"component"`
}

type rawComponentDef struct {
	Name       string            `xml:"name,attr"`
	Fields     []rawFieldRef     `xml:"field"`
	Groups     []rawGroupRef     `xml:"group"`
	Components []rawComponentRef `xml:"component"`
}

type rawMessage struct {
	Name    string            `xml:"name,attr"`
	MsgType string            `xml:"msgtype,attr"`
	MsgCat  string            `xml:"msgcat,attr"`
	rawFieldGroup
}

// decodeXML parses dictionary XML from r, tolerating a declared
// non-UTF-8 charset the way a dictionary exported from an XML editor
// sometimes carries.
func decodeXML(r io.Reader) (*rawDictionary, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw rawDictionary
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dictionary xml: %w", err)
	}
	return &raw, nil
}
