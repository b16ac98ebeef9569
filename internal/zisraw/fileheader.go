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

// FileHeader is the ZISRAWFILE segment payload, always at absolute file
// offset 0. It names where the directory, metadata, and attachment
// directory segments live and which copy of a multi-part file this is.
type FileHeader struct {
	VersionMajor                uint32
	VersionMinor                uint32
	PrimaryFileGUID             GUID
	FileGUID                    GUID
	FilePart                    int32
	DirectoryPosition           int64
	MetadataPosition            int64
	UpdatePending               bool
	AttachmentDirectoryPosition int64
}

// IsPrimary reports whether this file is the primary of any multi-part
// set it belongs to.
func (h *FileHeader) IsPrimary() bool {
	return h.PrimaryFileGUID == h.FileGUID
}

func readFileHeader(b *BlockBuffer) (*FileHeader, error) {
	major, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	minor, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(16); err != nil {
		return nil, err
	}

	primaryRaw, err := b.Drain(16)
	if err != nil {
		return nil, err
	}
	primary, err := ReadGUID(primaryRaw)
	if err != nil {
		return nil, err
	}

	fileRaw, err := b.Drain(16)
	if err != nil {
		return nil, err
	}
	fileGUID, err := ReadGUID(fileRaw)
	if err != nil {
		return nil, err
	}

	filePart, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	directoryPos, err := GetScalar[int64](b)
	if err != nil {
		return nil, err
	}
	metadataPos, err := GetScalar[int64](b)
	if err != nil {
		return nil, err
	}
	updatePending, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	attachDirPos, err := GetScalar[int64](b)
	if err != nil {
		return nil, err
	}

	return &FileHeader{
		VersionMajor:                major,
		VersionMinor:                minor,
		PrimaryFileGUID:             primary,
		FileGUID:                    fileGUID,
		FilePart:                    filePart,
		DirectoryPosition:           directoryPos,
		MetadataPosition:            metadataPos,
		UpdatePending:               updatePending != 0,
		AttachmentDirectoryPosition: attachDirPos,
	}, nil
}
