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

import "os"

// SourceFile is the positioned-read boundary every BlockBuffer and
// LazyFileSlice reads through. *os.File satisfies it directly; tests pass
// an in-memory implementation over a []byte fixture.
type SourceFile interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// OpenFile opens path for a ZISRAW File, read-only.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open file", err)
	}
	return f, nil
}

// readFullAt reads exactly len(p) bytes at off, failing on a short read
// instead of silently returning a partial buffer.
func readFullAt(source SourceFile, p []byte, off int64) error {
	n, err := source.ReadAt(p, off)
	if err != nil && n < len(p) {
		return newIOError("short read", err)
	}
	if n < len(p) {
		return newIOError("short read: unexpected EOF", nil)
	}
	return nil
}
