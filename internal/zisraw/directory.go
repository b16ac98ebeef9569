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

// Directory is the ZISRAWDIRECTORY segment payload: one DirectoryEntry per
// sub-block stored in the file.
type Directory struct {
	Entries []*DirectoryEntry
}

// DirectoryEntry locates one sub-block and describes its pixel geometry
// across whatever dimensions it carries.
type DirectoryEntry struct {
	SchemaType   string
	PixelType    int32
	FilePosition int64
	FilePart     int32
	Compression  int32
	PyramidType  uint8
	Dimensions   map[string]*DimensionEntry
}

// DimensionEntry describes one axis of a DirectoryEntry: its coordinate
// range within the overall image and, for pyramid levels, how many source
// pixels (Size) are held in how many stored pixels (StoredSize).
type DimensionEntry struct {
	Dimension       string
	Start           int32
	Size            uint32
	StartCoordinate float32
	StoredSize      uint32
}

// DownsampleFactor returns Size / StoredSize, the pyramid level's
// down-sampling ratio for this dimension. A non-pyramid entry has
// StoredSize == Size and returns 1.
func (d *DimensionEntry) DownsampleFactor() float64 {
	if d.StoredSize == 0 {
		return 0
	}
	return float64(d.Size) / float64(d.StoredSize)
}

func readDirectory(b *BlockBuffer) (*Directory, error) {
	count, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, newFormatError("negative directory entry count")
	}
	if err := b.SkipTo(128); err != nil {
		return nil, err
	}

	dir := &Directory{Entries: make([]*DirectoryEntry, 0, count)}
	for i := int32(0); i < count; i++ {
		entry, err := ReadNested(b, readDirectoryEntry)
		if err != nil {
			return nil, err
		}
		dir.Entries = append(dir.Entries, entry)
	}
	return dir, nil
}

func readDirectoryEntry(b *BlockBuffer) (*DirectoryEntry, error) {
	schemaType, err := b.GetASCII(schemaTypeWidth)
	if err != nil {
		return nil, err
	}
	pixelType, err := GetScalar[int32](b)
	if err != nil {
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
	compression, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	pyramidType, err := GetScalar[uint8](b)
	if err != nil {
		return nil, err
	}
	if err := b.SkipTo(28); err != nil {
		return nil, err
	}

	dimCount, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}

	dims := make(map[string]*DimensionEntry, dimCount)
	for i := uint32(0); i < dimCount; i++ {
		dim, err := readDimensionEntry(b)
		if err != nil {
			return nil, err
		}
		dims[dim.Dimension] = dim
	}

	return &DirectoryEntry{
		SchemaType:   schemaType,
		PixelType:    pixelType,
		FilePosition: filePosition,
		FilePart:     filePart,
		Compression:  compression,
		PyramidType:  pyramidType,
		Dimensions:   dims,
	}, nil
}

func readDimensionEntry(b *BlockBuffer) (*DimensionEntry, error) {
	name, err := b.GetASCII(4)
	if err != nil {
		return nil, err
	}
	start, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	size, err := GetScalar[uint32](b)
	if err != nil {
		return nil, err
	}
	startCoordinate, err := GetScalar[float32](b)
	if err != nil {
		return nil, err
	}
	// stored_size has been written as both i32 and u32 across CZI writer
	// generations; a negative on-disk value is a malformed file, not a
	// valid pyramid ratio.
	storedSizeSigned, err := GetScalar[int32](b)
	if err != nil {
		return nil, err
	}
	if storedSizeSigned < 0 {
		return nil, newFormatError("negative stored_size in dimension entry")
	}

	return &DimensionEntry{
		Dimension:       name,
		Start:           start,
		Size:            size,
		StartCoordinate: startCoordinate,
		StoredSize:      uint32(storedSizeSigned),
	}, nil
}
