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

import (
	"io"
	"time"
)

// File is the facade over an opened ZISRAW container: its FileHeader plus
// the shared, positioned-read source every derived segment reads through.
type File struct {
	source SourceFile
	closer io.Closer
	Header *FileHeader
}

// Open opens path and reads its FileHeader.
func Open(path string) (*File, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	file, err := OpenFromSource(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return file, nil
}

// OpenFromSource builds a File over an already-open source, reading its
// FileHeader from offset 0. closer may be nil if the caller owns the
// source's lifetime itself.
func OpenFromSource(source SourceFile, closer io.Closer) (*File, error) {
	seg, err := OpenSegment(source, 0)
	if err != nil {
		return nil, err
	}
	header, err := seg.AsFileHeader()
	if err != nil {
		return nil, err
	}
	return &File{source: source, closer: closer, Header: header}, nil
}

// Close releases the underlying file, if this File owns it.
func (f *File) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// Directory opens and returns the file's sub-block directory.
func (f *File) Directory() (*Directory, error) {
	seg, err := OpenSegment(f.source, f.Header.DirectoryPosition)
	if err != nil {
		return nil, err
	}
	return seg.AsDirectory()
}

// Metadata opens and returns the file's embedded XML metadata segment.
func (f *File) Metadata() (*Metadata, error) {
	seg, err := OpenSegment(f.source, f.Header.MetadataPosition)
	if err != nil {
		return nil, err
	}
	return seg.AsMetadata()
}

// Attachments returns the descriptors of every attachment in the file. A
// file with no attachment directory (AttachmentDirectoryPosition == 0)
// has none.
func (f *File) Attachments() ([]*AttachmentDescriptor, error) {
	if f.Header.AttachmentDirectoryPosition == 0 {
		return nil, nil
	}
	seg, err := OpenSegment(f.source, f.Header.AttachmentDirectoryPosition)
	if err != nil {
		return nil, err
	}
	dir, err := seg.AsAttachmentDirectory()
	if err != nil {
		return nil, err
	}
	return dir.Entries, nil
}

// MetadataXML returns the file's raw embedded XML source.
func (f *File) MetadataXML() (string, error) {
	meta, err := f.Metadata()
	if err != nil {
		return "", err
	}
	return meta.RawXML, nil
}

// Timestamp returns the file's acquisition (or, failing that, creation)
// timestamp.
func (f *File) Timestamp() (time.Time, error) {
	meta, err := f.Metadata()
	if err != nil {
		return time.Time{}, err
	}
	return ExtractTimestamp(meta)
}

// ImageInfo derives image-level facts (geometry, pixel size, scenes,
// timestamp) from the file's metadata.
func (f *File) ImageInfo() (*ImageInfo, error) {
	meta, err := f.Metadata()
	if err != nil {
		return nil, err
	}
	return ExtractImageInfo(meta)
}

// OriginalImageName returns the Experiment/ImageName recorded in the file's
// metadata XML, or an error if the file carries no such element.
func (f *File) OriginalImageName() (string, error) {
	meta, err := f.Metadata()
	if err != nil {
		return "", err
	}
	return ExtractOriginalImageName(meta)
}

// Thumbnail returns the file's "Thumbnail" attachment, or nil if the file
// carries no such attachment.
func (f *File) Thumbnail() (*Attachment, error) {
	attachments, err := f.Attachments()
	if err != nil {
		return nil, err
	}
	for _, a := range attachments {
		if a.Name != thumbnailAttachmentName {
			continue
		}
		seg, err := OpenSegment(f.source, a.FilePosition)
		if err != nil {
			return nil, err
		}
		return seg.AsAttachment()
	}
	return nil, nil
}
