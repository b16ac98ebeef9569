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
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// memSource is an in-memory SourceFile used to build synthetic segment
// fixtures without touching the real filesystem.
type memSource struct {
	data []byte
}

func (m *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// segmentBuilder assembles one ZISRAW segment's bytes: a 32-byte header
// followed by a payload, with convenience writers for the scalar and ASCII
// encodings the format uses.
type segmentBuilder struct {
	buf bytes.Buffer
}

func newSegmentBuilder() *segmentBuilder {
	return &segmentBuilder{}
}

func (s *segmentBuilder) ascii(text string, width int) *segmentBuilder {
	out := make([]byte, width)
	copy(out, text)
	s.buf.Write(out)
	return s
}

func (s *segmentBuilder) u8(v uint8) *segmentBuilder  { s.buf.WriteByte(v); return s }
func (s *segmentBuilder) i32(v int32) *segmentBuilder { return s.u32(uint32(v)) }
func (s *segmentBuilder) u32(v uint32) *segmentBuilder {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf.Write(b[:])
	return s
}
func (s *segmentBuilder) i64(v int64) *segmentBuilder { return s.u64(uint64(v)) }
func (s *segmentBuilder) u64(v uint64) *segmentBuilder {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buf.Write(b[:])
	return s
}
func (s *segmentBuilder) f32(v float32) *segmentBuilder {
	return s.u32(math.Float32bits(v))
}
func (s *segmentBuilder) bytes(b []byte) *segmentBuilder {
	s.buf.Write(b)
	return s
}
func (s *segmentBuilder) zeroPad(n int) *segmentBuilder {
	s.buf.Write(make([]byte, n))
	return s
}

func (s *segmentBuilder) len() int { return s.buf.Len() }

// testGUIDBytes returns a fixed, recognizable 16-byte GUID payload for use
// across fixtures.
func testGUIDBytes(seed byte) []byte {
	g := make([]byte, 16)
	for i := range g {
		g[i] = seed + byte(i)
	}
	return g
}

// buildSegment wraps a fully-built payload with its 32-byte segment
// header, padding the payload out to allocatedSize total bytes.
func buildSegment(tag string, allocatedSize uint64, payload []byte) []byte {
	var out bytes.Buffer
	idField := make([]byte, 16)
	copy(idField, tag)
	out.Write(idField)

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], allocatedSize)
	out.Write(sizeBuf[:])                     // allocated_size
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(payload)))
	out.Write(sizeBuf[:])                     // used_size

	out.Write(payload)
	if pad := int(allocatedSize) - len(payload); pad > 0 {
		out.Write(make([]byte, pad))
	}
	return out.Bytes()
}
