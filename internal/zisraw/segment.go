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

import "fmt"

// SegmentKind is the 16-byte ASCII tag at the start of every segment.
type SegmentKind string

const (
	SegmentFile                SegmentKind = "ZISRAWFILE"
	SegmentDirectory           SegmentKind = "ZISRAWDIRECTORY"
	SegmentMetadata            SegmentKind = "ZISRAWMETADATA"
	SegmentSubBlock            SegmentKind = "ZISRAWSUBBLOCK"
	SegmentAttachment          SegmentKind = "ZISRAWATTACH"
	SegmentAttachmentDirectory SegmentKind = "ZISRAWATTDIR"
	// SegmentDeleted is returned for any tag this reader does not
	// recognize, mirroring the writer's own convention of overwriting a
	// removed segment's id with "DELETED" rather than compacting the file.
	SegmentDeleted SegmentKind = "DELETED"
)

const segmentHeaderSize = 32

// schemaTypeWidth is the width of the "schema type" ASCII field carried by
// both DirectoryEntry and AttachmentDescriptor. Drafts of the format
// documented this field as 4 bytes, but every real segment.rs call site
// reads exactly 2 bytes; pin it here as a single named constant per the
// format's own open question about this field.
const schemaTypeWidth = 2

// Segment is one decoded ZISRAW segment: its header plus the typed payload
// selected by its id. Block holds the concrete payload type for the
// segment's Kind (*FileHeader, *Directory, *Metadata, *SubBlock,
// *Attachment, or *AttachmentDirectory), or nil for a segment id this
// reader does not recognize.
type Segment struct {
	Kind          SegmentKind
	Position      int64
	AllocatedSize uint64
	UsedSize      uint64
	Block         any
}

// OpenSegment reads and decodes the segment at pos in source.
func OpenSegment(source SourceFile, pos int64) (*Segment, error) {
	buf := NewBlockBuffer(source, pos, LittleEndian)

	idRaw, err := buf.GetASCII(16)
	if err != nil {
		return nil, err
	}
	allocated, err := GetScalar[uint64](buf)
	if err != nil {
		return nil, err
	}
	used, err := GetScalar[uint64](buf)
	if err != nil {
		return nil, err
	}
	if used == 0 {
		used = allocated
	}

	seg := &Segment{
		Kind:          SegmentKind(idRaw),
		Position:      pos,
		AllocatedSize: allocated,
		UsedSize:      used,
	}

	// Every payload reader below measures its SkipTo offsets from the
	// payload's own start, not the segment header's, so hand it a buffer
	// freshly originated there rather than continuing buf (which would
	// still carry the 32 header bytes already drained into its count).
	// SpliceBounded, not Splice, since eagerly copying out the whole
	// allocated region would force large sub-block pixel payloads into
	// memory before GetCachedData ever gets a chance to defer them.
	payload := buf.SpliceBounded(int(allocated))

	switch seg.Kind {
	case SegmentFile:
		seg.Block, err = readFileHeader(payload)
	case SegmentDirectory:
		seg.Block, err = readDirectory(payload)
	case SegmentMetadata:
		seg.Block, err = readMetadata(payload)
	case SegmentSubBlock:
		seg.Block, err = readSubBlock(payload)
	case SegmentAttachment:
		seg.Block, err = readAttachment(payload)
	case SegmentAttachmentDirectory:
		seg.Block, err = readAttachmentDirectory(payload)
	default:
		seg.Kind = SegmentDeleted
	}
	if err != nil {
		return nil, err
	}

	return seg, nil
}

func asBlock[T any](seg *Segment, kind SegmentKind) (T, error) {
	var zero T
	if seg.Kind != kind {
		return zero, newFormatError(fmt.Sprintf("expected %s segment, got %s", kind, seg.Kind))
	}
	v, ok := seg.Block.(T)
	if !ok {
		return zero, newFormatError(fmt.Sprintf("%s segment has unexpected payload type", kind))
	}
	return v, nil
}

// AsFileHeader asserts this segment is a ZISRAWFILE segment.
func (s *Segment) AsFileHeader() (*FileHeader, error) {
	return asBlock[*FileHeader](s, SegmentFile)
}

// AsDirectory asserts this segment is a ZISRAWDIRECTORY segment.
func (s *Segment) AsDirectory() (*Directory, error) {
	return asBlock[*Directory](s, SegmentDirectory)
}

// AsMetadata asserts this segment is a ZISRAWMETADATA segment.
func (s *Segment) AsMetadata() (*Metadata, error) {
	return asBlock[*Metadata](s, SegmentMetadata)
}

// AsSubBlock asserts this segment is a ZISRAWSUBBLOCK segment.
func (s *Segment) AsSubBlock() (*SubBlock, error) {
	return asBlock[*SubBlock](s, SegmentSubBlock)
}

// AsAttachment asserts this segment is a ZISRAWATTACH segment.
func (s *Segment) AsAttachment() (*Attachment, error) {
	return asBlock[*Attachment](s, SegmentAttachment)
}

// AsAttachmentDirectory asserts this segment is a ZISRAWATTDIR segment.
func (s *Segment) AsAttachmentDirectory() (*AttachmentDirectory, error) {
	return asBlock[*AttachmentDirectory](s, SegmentAttachmentDirectory)
}
