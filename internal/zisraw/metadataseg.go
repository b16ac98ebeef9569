// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zisraw

import "github.com/beevik/etree"

const metadataHeaderSize = 256

// cachedXMLTree parses a raw XML string into an *etree.Document at most
// once, the first time Tree is called.
type cachedXMLTree struct {
	cached *CachedValue[string, *etree.Document]
}

func newCachedXMLTree(raw string) *cachedXMLTree {
	return &cachedXMLTree{cached: NewCachedValue(raw, parseXMLDocument)}
}

func parseXMLDocument(raw string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, newParseError("parse metadata XML", err)
	}
	return doc, nil
}

func (c *cachedXMLTree) Tree() (*etree.Document, error) {
	return c.cached.Get()
}

// Metadata is the ZISRAWMETADATA segment payload: the container's raw XML
// source plus a lazily-parsed tree.
type Metadata struct {
	RawXML string
	tree   *cachedXMLTree
}

// Element returns the <Metadata> element of the parsed XML document. Most
// writers emit a document root (commonly <ImageDocument>) whose immediate
// child is <Metadata>; a few emit <Metadata> as the root itself, which is
// accepted too.
func (m *Metadata) Element() (*etree.Element, error) {
	doc, err := m.tree.Tree()
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, newFormatError("metadata XML has no root element")
	}
	if root.Tag == "Metadata" {
		return root, nil
	}
	el := root.SelectElement("Metadata")
	if el == nil {
		return nil, newFormatError("metadata XML missing Metadata element")
	}
	return el, nil
}

func readMetadata(b *BlockBuffer) (*Metadata, error) {
	xmlSize, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	if xmlSize < 0 {
		return nil, newFormatError("negative metadata xml_size")
	}
	if err := b.SkipTo(metadataHeaderSize); err != nil {
		return nil, err
	}
	raw, err := b.GetUTF8(int(xmlSize))
	if err != nil {
		return nil, err
	}
	return &Metadata{RawXML: raw, tree: newCachedXMLTree(raw)}, nil
}
