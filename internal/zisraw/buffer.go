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
	"math"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// fetchPadding is how many extra bytes BlockBuffer over-reads on a cache
// miss, so that a run of small scalar reads doesn't turn into a syscall
// each.
const fetchPadding = 1024

// BlockBuffer is a forward-only, positioned, endian-aware window onto a
// SourceFile. buffer[0] always corresponds to absolute file offset origin;
// drained is the index within buffer of the buffer's current logical read
// position, so the buffer's current absolute file position is always
// origin + drained. Bytes before drained have already been handed to a
// caller and are never revisited: the buffer only ever moves forward.
type BlockBuffer struct {
	source  SourceFile
	origin  int64
	buffer  []byte
	drained int
	endian  Endianness
	// limitEnd is the absolute file offset this buffer may not read past,
	// or -1 if unbounded. Set by Resize and propagated to bounded splices.
	limitEnd int64
	// base is the absolute file offset this buffer's structure (a segment
	// payload, or a nested entry read via ReadNested) started at. Unlike
	// origin, AbsorbFrom never rewrites it, so SkipTo's small constants
	// keep meaning "offset from this structure's own start" even after a
	// nested read has rebased origin partway through.
	base int64
}

// NewBlockBuffer opens a buffer positioned at pos in source, initially
// empty: nothing is read until the first Drain-family call.
func NewBlockBuffer(source SourceFile, pos int64, endian Endianness) *BlockBuffer {
	return &BlockBuffer{source: source, origin: pos, base: pos, endian: endian, limitEnd: -1}
}

// Position returns the buffer's current absolute file offset.
func (b *BlockBuffer) Position() int64 {
	return b.origin + int64(b.drained)
}

// fetchAtLeast ensures at least min unread bytes are available, reading
// more from the source file (with padding, to avoid a syscall per scalar)
// if necessary.
func (b *BlockBuffer) fetchAtLeast(min int) error {
	available := len(b.buffer) - b.drained
	if available >= min {
		return nil
	}

	need := min - available
	readLen := need + fetchPadding
	readStart := b.origin + int64(len(b.buffer))

	if b.limitEnd >= 0 {
		maxReadable := b.limitEnd - readStart
		if maxReadable < 0 {
			maxReadable = 0
		}
		if int64(readLen) > maxReadable {
			readLen = int(maxReadable)
		}
	}

	if readLen > 0 {
		tmp := make([]byte, readLen)
		n, err := b.source.ReadAt(tmp, readStart)
		if n > 0 {
			b.buffer = append(b.buffer, tmp[:n]...)
		}
		if err != nil && n == 0 && len(b.buffer)-b.drained < min {
			return newIOError("read segment data", err)
		}
	}

	if len(b.buffer)-b.drained < min {
		// A bounded buffer that runs dry hit its segment's declared
		// allocated_size: the structure claims more bytes than the segment
		// holds, a malformed file rather than a short file.
		if b.limitEnd >= 0 && b.origin+int64(len(b.buffer)) >= b.limitEnd {
			return newFormatError("structure runs past its segment's allocated size")
		}
		return newIOError("unexpected end of file reading segment data", nil)
	}
	return nil
}

// Drain consumes and returns the next size bytes.
func (b *BlockBuffer) Drain(size int) ([]byte, error) {
	if size < 0 {
		return nil, newFormatError("negative drain size")
	}
	if err := b.fetchAtLeast(size); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, b.buffer[b.drained:b.drained+size])
	b.drained += size
	return out, nil
}

// skip advances the logical position by n bytes without returning them.
func (b *BlockBuffer) skip(n int) error {
	if err := b.fetchAtLeast(n); err != nil {
		return err
	}
	b.drained += n
	return nil
}

// SkipTo moves the buffer forward to newPos, measured in bytes from this
// buffer's base (the start of the segment payload or nested structure it
// was spliced from), not as an absolute file offset. Moving backwards is a
// programming error in a forward-only reader and is rejected rather than
// silently ignored.
func (b *BlockBuffer) SkipTo(newPos int64) error {
	target := b.base + newPos
	current := b.Position()
	if target < current {
		return newBackwardsSkipError(current-b.base, newPos)
	}
	return b.skip(int(target - current))
}

// Resize bounds this buffer to exactly newSize bytes measured from its
// origin (not from the current drained position), and ensures the buffer
// already holds all newSize bytes. Callers that want the bound without the
// eager read use SpliceBounded instead.
func (b *BlockBuffer) Resize(newSize int) error {
	if newSize < 0 {
		return newFormatError("negative resize")
	}
	b.limitEnd = b.origin + int64(newSize)
	needUnread := newSize - b.drained
	if needUnread > 0 {
		if err := b.fetchAtLeast(needUnread); err != nil {
			return err
		}
	}
	if len(b.buffer) > newSize {
		b.buffer = b.buffer[:newSize]
	}
	return nil
}

// GetCachedData returns a LazyFileSlice over the next length bytes without
// reading them. The buffer's position advances past the region immediately;
// any bytes already prefetched into it past that point are discarded, since
// the whole point of a cached slice is to defer the actual read.
func (b *BlockBuffer) GetCachedData(length int) (*LazyFileSlice, error) {
	if length < 0 {
		return nil, newFormatError("negative cached data length")
	}
	pos := b.Position()
	slice := NewLazyFileSlice(b.source, pos, length)
	b.origin = pos + int64(length)
	b.buffer = nil
	b.drained = 0
	return slice, nil
}

// SpliceUnlimited returns a new, unbounded buffer positioned at this
// buffer's current location, sharing the same source file. It is used to
// hand a nested structure its own buffer to read through without knowing
// in advance how many bytes that structure will consume.
func (b *BlockBuffer) SpliceUnlimited() *BlockBuffer {
	pos := b.Position()
	return &BlockBuffer{
		source:   b.source,
		origin:   pos,
		base:     pos,
		endian:   b.endian,
		limitEnd: -1,
	}
}

// SpliceBounded returns a new buffer rebased to this buffer's current
// position and bounded to exactly size bytes, without reading any of them
// (unlike Splice, whose eager copy-out would force a segment's entire
// payload, pixel data included, into memory up front). This buffer is left
// fully drained at the child's end, matching GetCachedData's handoff.
func (b *BlockBuffer) SpliceBounded(size int) *BlockBuffer {
	pos := b.Position()
	child := &BlockBuffer{
		source:   b.source,
		origin:   pos,
		base:     pos,
		endian:   b.endian,
		limitEnd: pos + int64(size),
	}
	b.origin = pos + int64(size)
	b.buffer = nil
	b.drained = 0
	return child
}

// Splice returns a new buffer bounded to exactly size bytes starting at
// this buffer's current position, and advances this buffer past them.
func (b *BlockBuffer) Splice(size int) (*BlockBuffer, error) {
	if err := b.fetchAtLeast(size); err != nil {
		return nil, err
	}
	pos := b.Position()
	child := &BlockBuffer{
		source:   b.source,
		origin:   pos,
		base:     pos,
		buffer:   append([]byte(nil), b.buffer[b.drained:b.drained+size]...),
		endian:   b.endian,
		limitEnd: pos + int64(size),
	}
	b.drained += size
	return child, nil
}

// SpliceAll returns a new buffer over all of this buffer's remaining
// unread bytes, leaving this buffer fully drained.
func (b *BlockBuffer) SpliceAll() (*BlockBuffer, error) {
	remaining := len(b.buffer) - b.drained
	return b.Splice(remaining)
}

// AbsorbFrom re-anchors this buffer onto the state of a child buffer
// obtained from SpliceUnlimited, after the child has been used to read a
// nested structure. This is how a parent buffer picks up exactly where a
// child buffer's forward-only cursor left off.
func (b *BlockBuffer) AbsorbFrom(child *BlockBuffer) {
	b.origin = child.origin
	b.buffer = child.buffer
	b.drained = child.drained
	b.limitEnd = child.limitEnd
}

// ReadNested splices an unbounded child buffer, runs reader over it, and
// absorbs the child's final position back into b. This is the mechanism
// every composite segment payload (Directory, SubBlock, Attachment, ...)
// uses to read a nested structure whose exact size isn't known up front.
// A bounded b keeps its bound across the nested read, and a nested
// structure that ends past that bound is a Format error.
func ReadNested[T any](b *BlockBuffer, reader func(*BlockBuffer) (T, error)) (T, error) {
	limit := b.limitEnd
	child := b.SpliceUnlimited()
	val, err := reader(child)
	b.AbsorbFrom(child)
	if limit >= 0 {
		b.limitEnd = limit
		if end := limit - b.origin; end >= int64(b.drained) && end < int64(len(b.buffer)) {
			b.buffer = b.buffer[:end]
		}
		if err == nil && b.Position() > limit {
			err = newFormatError("structure runs past its segment's allocated size")
		}
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return val, nil
}

// Scalar is the set of fixed-width numeric types BlockBuffer can decode
// directly, matching the primitive field widths used throughout the
// segment layout.
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// GetScalar decodes the next fixed-width value of type T in the buffer's
// configured byte order.
func GetScalar[T Scalar](b *BlockBuffer) (T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	raw, err := b.Drain(size)
	if err != nil {
		return zero, err
	}
	order := b.endian.order()

	switch any(zero).(type) {
	case uint8, int8:
		return T(raw[0]), nil
	case uint16:
		return T(order.Uint16(raw)), nil
	case int16:
		return T(int16(order.Uint16(raw))), nil
	case uint32:
		return T(order.Uint32(raw)), nil
	case int32:
		return T(int32(order.Uint32(raw))), nil
	case uint64:
		return T(order.Uint64(raw)), nil
	case int64:
		return T(int64(order.Uint64(raw))), nil
	case float32:
		return T(math.Float32frombits(order.Uint32(raw))), nil
	case float64:
		return T(math.Float64frombits(order.Uint64(raw))), nil
	default:
		return zero, newFormatError("unsupported scalar type")
	}
}

// GetVec decodes n consecutive values of type T.
func GetVec[T Scalar](b *BlockBuffer, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := GetScalar[T](b)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// GetUTF8 decodes the next length bytes as UTF-8 text, replacing invalid
// sequences rather than failing, since embedded XML is sometimes
// mis-declared by the writer.
func (b *BlockBuffer) GetUTF8(length int) (string, error) {
	raw, err := b.Drain(length)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// GetASCII decodes the next length bytes as an ASCII/UTF-8 string and
// trims trailing NUL padding, the encoding used for segment ids and
// attachment names.
func (b *BlockBuffer) GetASCII(length int) (string, error) {
	s, err := b.GetUTF8(length)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00"), nil
}
