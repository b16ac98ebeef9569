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

// Package discover walks a storage backend for ZISRAW/CZI files and feeds
// each one to a registry.Store. It is the scanning counterpart of the
// registry: the registry knows how to record a file once opened, this
// package knows where to find files in the first place.
package discover

import (
	"context"
	"io"
	"time"

	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// FileInfo describes one candidate file found by a Backend listing.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Source is an opened file ready for the core reader: a positioned-read
// handle plus its own lifecycle. *os.File satisfies this directly; the S3
// backend's ranged-read adapter satisfies it without ever holding the whole
// object in memory.
type Source interface {
	zisraw.SourceFile
	io.Closer
}

// Backend abstracts over where CZI files live: a local directory today,
// an S3 bucket tomorrow, any other tree-of-files store future backends add.
// A scanner only ever reads what's already there and registers it; Backend
// carries no write methods.
type Backend interface {
	// List returns every file under prefix, recursively.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Open returns a positioned-read handle onto path, without necessarily
	// reading any of its bytes up front. Callers must Close it.
	Open(ctx context.Context, path string) (Source, error)

	// Close releases any resources the backend itself holds (connections,
	// clients). It does not affect Sources already handed out.
	Close() error
}
