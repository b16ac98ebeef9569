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

// SubBlock is the ZISRAWSUBBLOCK segment payload: one image tile's
// directory entry, its own small metadata XML fragment, and its pixel
// (and optional attachment) data as lazily-materialised slices. None of
// Data or AttachmentData is read until a caller explicitly fetches it.
type SubBlock struct {
	Entry          *DirectoryEntry
	MetadataXML    string
	Data           *LazyFileSlice
	AttachmentData *LazyFileSlice

	tree *cachedXMLTree
}

// MetadataElement returns the tile's own metadata XML, parsed into an
// *etree.Document the first time it's requested.
func (s *SubBlock) MetadataElement() (*etree.Document, error) {
	if s.tree == nil {
		return nil, newFormatError("sub-block has no metadata XML")
	}
	return s.tree.Tree()
}

func readSubBlock(b *BlockBuffer) (*SubBlock, error) {
	metadataSize, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	attachmentSize, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	dataSize, err := GetScalar[uint64](b)
	if err != nil {
		return nil, err
	}
	entry, err := ReadNested(b, readDirectoryEntry)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(metadataHeaderSize); err != nil {
		return nil, err
	}

	rawMeta, err := b.GetUTF8(int(metadataSize))
	if err != nil {
		return nil, err
	}

	data, err := b.GetCachedData(int(dataSize))
	if err != nil {
		return nil, err
	}

	var attachment *LazyFileSlice
	if attachmentSize > 0 {
		attachment, err = b.GetCachedData(int(attachmentSize))
		if err != nil {
			return nil, err
		}
	}

	sub := &SubBlock{
		Entry:          entry,
		MetadataXML:    rawMeta,
		Data:           data,
		AttachmentData: attachment,
	}
	if rawMeta != "" {
		sub.tree = newCachedXMLTree(rawMeta)
	}
	return sub, nil
}
