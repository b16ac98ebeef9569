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

// thumbnailAttachmentName is the attachment name the facade recognises as
// the container's embedded thumbnail.
const thumbnailAttachmentName = "Thumbnail"

// AttachmentDescriptor locates and identifies one named attachment,
// without reading its payload.
type AttachmentDescriptor struct {
	SchemaType      string
	FilePosition    int64
	FilePart        int32
	ContentGUID     GUID
	ContentFileType string
	Name            string
}

// Attachment is the ZISRAWATTACH segment payload: a descriptor plus the
// attachment's bytes, not read until Data.Get is called.
type Attachment struct {
	Entry *AttachmentDescriptor
	Data  *LazyFileSlice
}

// AttachmentDirectory is the ZISRAWATTDIR segment payload: the list of all
// attachments present in the file.
type AttachmentDirectory struct {
	Entries []*AttachmentDescriptor
}

func readAttachmentDescriptor(b *BlockBuffer) (*AttachmentDescriptor, error) {
	schemaType, err := b.GetASCII(schemaTypeWidth)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(12); err != nil {
		return nil, err
	}

	filePosition, err := GetScalar[int64](b)
	if err != nil {
		return nil, err
	}
	filePart, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	guidRaw, err := b.Drain(16)
	if err != nil {
		return nil, err
	}
	contentGUID, err := ReadGUID(guidRaw)
	if err != nil {
		return nil, err
	}
	contentFileType, err := b.GetASCII(8)
	if err != nil {
		return nil, err
	}
	name, err := b.GetASCII(80)
	if err != nil {
		return nil, err
	}

	return &AttachmentDescriptor{
		SchemaType:      schemaType,
		FilePosition:    filePosition,
		FilePart:        filePart,
		ContentGUID:     contentGUID,
		ContentFileType: contentFileType,
		Name:            name,
	}, nil
}

func readAttachment(b *BlockBuffer) (*Attachment, error) {
	dataSize, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(16); err != nil {
		return nil, err
	}
	entry, err := ReadNested(b, readAttachmentDescriptor)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(metadataHeaderSize); err != nil {
		return nil, err
	}
	data, err := b.GetCachedData(int(dataSize))
	if err != nil {
		return nil, err
	}
	return &Attachment{Entry: entry, Data: data}, nil
}

func readAttachmentDirectory(b *BlockBuffer) (*AttachmentDirectory, error) {
	count, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(metadataHeaderSize); err != nil {
		return nil, err
	}

	dir := &AttachmentDirectory{Entries: make([]*AttachmentDescriptor, 0, count)}
	for i := uint32(0); i < count; i++ {
		entry, err := ReadNested(b, readAttachmentDescriptor)
		if err != nil {
			return nil, err
		}
		dir.Entries = append(dir.Entries, entry)
	}
	return dir, nil
}
