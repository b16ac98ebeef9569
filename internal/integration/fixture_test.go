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

package integration

import (
	"encoding/binary"
	"os"
	"testing"
)

// buildMinimalCZI writes a synthetic CZI file with a FileHeader, an empty
// Directory, a Metadata segment, and an optional Thumbnail attachment,
// enough to exercise the full scan/register/serve pipeline without a real
// acquisition file. It mirrors internal/cli's own fixture_test.go helper,
// extended with attachment/attachment-directory segments this package's
// tests need that the cli package's tests do not.
func buildMinimalCZI(t *testing.T, path string, fileGUID, primaryGUID [16]byte, imageName string, thumbnail []byte) {
	t.Helper()

	xml := `<Metadata>
  <Information>
    <Image>
      <SizeX>512</SizeX>
      <SizeY>256</SizeY>
      <SizeZ>3</SizeZ>
      <PixelType>Gray16</PixelType>
      <AcquisitionDateAndTime>2021-12-02T09:17:32Z</AcquisitionDateAndTime>
    </Image>
  </Information>
  <Experiment>
    <ImageName>` + imageName + `</ImageName>
  </Experiment>
</Metadata>`

	const (
		headerAllocSize = 512
		dirPos          = 1024
		dirAllocSize    = 256
		metaPos         = 2048
		metaAllocSize   = 2048
		attdirPos       = 8192
		attdirAllocSize = 512
		attachPos       = 9216
		attachAllocSize = 512
	)

	hasThumb := len(thumbnail) > 0

	fileHeaderPayload := make([]byte, headerAllocSize)
	binary.LittleEndian.PutUint32(fileHeaderPayload[0:4], 1)
	binary.LittleEndian.PutUint32(fileHeaderPayload[4:8], 0)
	copy(fileHeaderPayload[16:32], primaryGUID[:])
	copy(fileHeaderPayload[32:48], fileGUID[:])
	binary.LittleEndian.PutUint32(fileHeaderPayload[48:52], 0)
	binary.LittleEndian.PutUint64(fileHeaderPayload[52:60], uint64(dirPos))
	binary.LittleEndian.PutUint64(fileHeaderPayload[60:68], uint64(metaPos))
	binary.LittleEndian.PutUint32(fileHeaderPayload[68:72], 0)
	if hasThumb {
		binary.LittleEndian.PutUint64(fileHeaderPayload[72:80], uint64(attdirPos))
	}

	dirPayload := make([]byte, dirAllocSize)
	binary.LittleEndian.PutUint32(dirPayload[0:4], 0)

	metaPayload := make([]byte, metaAllocSize)
	binary.LittleEndian.PutUint32(metaPayload[0:4], uint32(len(xml)))
	copy(metaPayload[256:256+len(xml)], xml)

	totalSize := metaPos + 32 + metaAllocSize
	if hasThumb {
		totalSize = attachPos + 32 + attachAllocSize
	}
	buf := make([]byte, totalSize)
	writeTestSegment(buf, 0, "ZISRAWFILE", fileHeaderPayload)
	writeTestSegment(buf, dirPos, "ZISRAWDIRECTORY", dirPayload)
	writeTestSegment(buf, metaPos, "ZISRAWMETADATA", metaPayload)

	if hasThumb {
		// Attachment descriptor, relative to its own start: 2-byte schema,
		// skip to 12, int64 file position, int32 file part, 16-byte GUID,
		// 8-byte content type, 80-byte name (internal/zisraw/attachment.go).
		attdirPayload := make([]byte, attdirAllocSize)
		binary.LittleEndian.PutUint32(attdirPayload[0:4], 1)
		const descStart = 256
		copy(attdirPayload[descStart:descStart+2], "A1")
		binary.LittleEndian.PutUint64(attdirPayload[descStart+12:descStart+20], uint64(attachPos))
		copy(attdirPayload[descStart+40:descStart+48], "JPG")
		copy(attdirPayload[descStart+48:descStart+128], "Thumbnail")
		writeTestSegment(buf, attdirPos, "ZISRAWATTDIR", attdirPayload)

		attachPayload := make([]byte, attachAllocSize)
		binary.LittleEndian.PutUint32(attachPayload[0:4], uint32(len(thumbnail)))
		const attachDescStart = 16
		copy(attachPayload[attachDescStart:attachDescStart+2], "A1")
		binary.LittleEndian.PutUint64(attachPayload[attachDescStart+12:attachDescStart+20], uint64(attachPos))
		copy(attachPayload[attachDescStart+40:attachDescStart+48], "JPG")
		copy(attachPayload[attachDescStart+48:attachDescStart+128], "Thumbnail")
		copy(attachPayload[256:256+len(thumbnail)], thumbnail)
		writeTestSegment(buf, attachPos, "ZISRAWATTACH", attachPayload)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func writeTestSegment(buf []byte, offset int64, tag string, payload []byte) {
	idField := make([]byte, 16)
	copy(idField, tag)
	copy(buf[offset:offset+16], idField)
	binary.LittleEndian.PutUint64(buf[offset+16:offset+24], uint64(len(payload)))
	binary.LittleEndian.PutUint64(buf[offset+24:offset+32], uint64(len(payload)))
	copy(buf[offset+32:offset+32+int64(len(payload))], payload)
}

func testGUID(seed byte) [16]byte {
	var g [16]byte
	for i := range g {
		g[i] = seed + byte(i)
	}
	return g
}
