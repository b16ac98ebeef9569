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
	"strings"

	"github.com/scttfrdmn/zisraw/internal/registry"
	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// czi name matching mirrors the writer's own convention of a primary
// ".czi" extension plus numbered companions (".cz1", ".cz2", ...) for
// files split across a multi-part acquisition.
func LooksLikeCZI(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".czi") || strings.HasSuffix(lower, ".cz1") ||
		strings.HasSuffix(lower, ".cz2") || strings.HasSuffix(lower, ".cz3") ||
		strings.HasSuffix(lower, ".cz4") || strings.HasSuffix(lower, ".cz5")
}

// ScanResult tallies what a scan did across every candidate file found.
type ScanResult struct {
	Scanned int
	// Registered counts files that added a new image to the registry; a
	// further copy of a known image or an already-registered path is not
	// counted.
	Registered int
	Skipped    int
	Errors     []error
}

// Scanner walks a Backend for CZI files and registers each one.
type Scanner struct {
	backend Backend
	store   *registry.Store
}

// NewScanner pairs a Backend with the registry it reports discoveries to.
func NewScanner(backend Backend, store *registry.Store) *Scanner {
	return &Scanner{backend: backend, store: store}
}

// Scan lists every file under prefix and registers each CZI-looking one.
// A single file's failure does not stop the scan; it is collected into the
// result and the scan continues, since one malformed or truncated file in
// a directory of thousands shouldn't block the rest from being registered.
func (s *Scanner) Scan(ctx context.Context, prefix string) (*ScanResult, error) {
	files, err := s.backend.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	result := &ScanResult{}
	for _, f := range files {
		if f.IsDir || !LooksLikeCZI(f.Path) {
			result.Skipped++
			continue
		}
		result.Scanned++

		reg, err := s.ScanFile(ctx, f.Path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		if reg.Outcome == registry.Inserted {
			result.Registered++
		}
	}
	return result, nil
}

// ScanFile opens one file through the backend far enough to read its
// FileHeader and registers it. It is also the entry point a debounced
// filesystem watch event calls directly, without a full directory listing.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*registry.RegisterResult, error) {
	source, err := s.backend.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = source.Close() }()

	f, err := zisraw.OpenFromSource(source, nil)
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	return s.store.RegisterOpened(ctx, path, f)
}
