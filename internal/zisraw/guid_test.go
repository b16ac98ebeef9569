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

import "testing"

func TestGUID_RoundTrip(t *testing.T) {
	raw := testGUIDBytes(0x10)

	g, err := ReadGUID(raw)
	if err != nil {
		t.Fatalf("read guid: %v", err)
	}

	out := g.Bytes()
	if len(out) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(out))
	}
	for i := range raw {
		if raw[i] != out[i] {
			t.Fatalf("byte %d: expected %x, got %x", i, raw[i], out[i])
		}
	}
}

func TestGUID_StringParseRoundTrip(t *testing.T) {
	raw := testGUIDBytes(0x20)
	g, err := ReadGUID(raw)
	if err != nil {
		t.Fatalf("read guid: %v", err)
	}

	s := g.String()
	g2, err := ParseGUID(s)
	if err != nil {
		t.Fatalf("parse guid string %q: %v", s, err)
	}
	if g != g2 {
		t.Fatalf("round trip mismatch: %v != %v", g, g2)
	}
}

func TestReadGUID_WrongLength(t *testing.T) {
	if _, err := ReadGUID(make([]byte, 8)); err == nil {
		t.Fatal("expected format error for short GUID input")
	}
}
