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
	"encoding/binary"

	"github.com/google/uuid"
)

// GUID is a 16-byte ZISRAW identifier. On the wire it uses the Microsoft
// mixed-endian layout (the first three fields little-endian, the last two
// big-endian), not the RFC 4122 byte order uuid.UUID assumes, so GUID keeps
// its own raw 16 bytes and converts explicitly at the boundary.
type GUID [16]byte

// ReadGUID decodes a GUID from its 16-byte mixed-endian wire representation.
func ReadGUID(raw []byte) (GUID, error) {
	if len(raw) != 16 {
		return GUID{}, newFormatError("GUID requires exactly 16 bytes")
	}

	var g GUID
	// Data1 (4 bytes, LE), Data2 (2 bytes, LE), Data3 (2 bytes, LE) are
	// stored little-endian on disk but RFC 4122 byte order is big-endian,
	// so each field is reversed in place. Data4 (8 bytes) is already in
	// the wire order RFC 4122 expects.
	binary.BigEndian.PutUint32(g[0:4], binary.LittleEndian.Uint32(raw[0:4]))
	binary.BigEndian.PutUint16(g[4:6], binary.LittleEndian.Uint16(raw[4:6]))
	binary.BigEndian.PutUint16(g[6:8], binary.LittleEndian.Uint16(raw[6:8]))
	copy(g[8:16], raw[8:16])
	return g, nil
}

// Bytes encodes the GUID back to its 16-byte mixed-endian wire
// representation, the inverse of ReadGUID.
func (g GUID) Bytes() []byte {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint32(raw[0:4], binary.BigEndian.Uint32(g[0:4]))
	binary.LittleEndian.PutUint16(raw[4:6], binary.BigEndian.Uint16(g[4:6]))
	binary.LittleEndian.PutUint16(raw[6:8], binary.BigEndian.Uint16(g[6:8]))
	copy(raw[8:16], g[8:16])
	return raw
}

// UUID returns the GUID reinterpreted as a standard RFC 4122 UUID, for use
// as a registry primary key via github.com/google/uuid.
func (g GUID) UUID() uuid.UUID {
	return uuid.UUID(g)
}

// String renders the GUID in standard dashed hex form.
func (g GUID) String() string {
	return g.UUID().String()
}

// ParseGUID parses a standard dashed-hex UUID string into a GUID.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, newParseError("parse GUID string", err)
	}
	return GUID(u), nil
}
