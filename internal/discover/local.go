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

package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalBackend implements Backend over a directory on the local filesystem.
type LocalBackend struct {
	root string
}

// NewLocalBackend returns a backend rooted at root, creating it if absent.
func NewLocalBackend(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}
	return &LocalBackend{root: root}, nil
}

// List walks prefix under the backend's root. It does not compute a content
// checksum per file: the registry identifies images by the GUIDs embedded
// in their FileHeader, not by file hash, and hashing a multi-gigabyte CZI
// file on every scan would dominate the scan's cost for no benefit.
func (b *LocalBackend) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo
	fullPath := filepath.Join(b.root, prefix)

	err := filepath.Walk(fullPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		relPath, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}

		files = append(files, FileInfo{
			Path:    relPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return files, nil
}

// Open opens path, relative to the backend's root, for positioned reads.
// *os.File is both a zisraw.SourceFile and an io.Closer, so it satisfies
// Source without any wrapping.
func (b *LocalBackend) Open(ctx context.Context, path string) (Source, error) {
	f, err := os.Open(filepath.Join(b.root, path))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Close is a no-op: a local backend holds no resources of its own.
func (b *LocalBackend) Close() error {
	return nil
}
