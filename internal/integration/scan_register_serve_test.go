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

// Package integration exercises the core ZISRAW reader together with its
// out-of-core collaborators (registry, discover, server) end to end,
// against synthetic fixtures built the same way internal/zisraw's and
// internal/cli's own unit tests build them.
package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/scttfrdmn/zisraw/internal/discover"
	"github.com/scttfrdmn/zisraw/internal/registry"
	"github.com/scttfrdmn/zisraw/internal/server"
	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

// guidString decodes a raw 16-byte test GUID the same way the core reader
// does, so tests can compare against registry.ImageDescriptor's uuid.UUID
// fields without duplicating the mixed-endian conversion.
func guidString(t *testing.T, raw [16]byte) string {
	t.Helper()
	g, err := zisraw.ReadGUID(raw[:])
	if err != nil {
		t.Fatalf("read guid: %v", err)
	}
	return g.String()
}

// TestScanRegisterServe_EndToEnd walks a directory of synthetic CZI files,
// registers every one found, and confirms the registry's HTTP surface
// reports what got registered: the full path from discovery through to
// query.
func TestScanRegisterServe_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	buildMinimalCZI(t, filepath.Join(dir, "a.czi"), testGUID(0x10), testGUID(0x10), "SampleA", []byte{0xFF, 0xD8, 0xFF})
	buildMinimalCZI(t, filepath.Join(dir, "b.czi"), testGUID(0x20), testGUID(0x20), "SampleB", nil)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a CZI file"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}

	store, err := registry.Open(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	defer func() { _ = store.Close() }()

	backend, err := discover.NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("new local backend: %v", err)
	}
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	scanner := discover.NewScanner(backend, store)
	result, err := scanner.Scan(ctx, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Registered != 2 {
		t.Fatalf("registered = %d, want 2 (got errors %v)", result.Registered, result.Errors)
	}
	if result.Scanned != 2 {
		t.Fatalf("scanned = %d, want 2 (only .czi-suffixed paths count)", result.Scanned)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected scan errors: %v", result.Errors)
	}

	srv := httptest.NewServer(server.New(store))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/images")
	if err != nil {
		t.Fatalf("GET /images: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var descriptors []struct {
		GUID           string   `json:"GUID"`
		OriginalPath   string   `json:"OriginalPath"`
		KnownFilenames []string `json:"KnownFilenames"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&descriptors); err != nil {
		t.Fatalf("decode /images: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("len(descriptors) = %d, want 2", len(descriptors))
	}

	var sawThumbGUID string
	for _, d := range descriptors {
		if filepath.Base(d.OriginalPath) == "a.czi" {
			sawThumbGUID = d.GUID
		}
	}
	if sawThumbGUID == "" {
		t.Fatal("did not find a.czi among registered images")
	}

	thumbResp, err := srv.Client().Get(srv.URL + "/images/" + sawThumbGUID + "/thumbnail")
	if err != nil {
		t.Fatalf("GET thumbnail: %v", err)
	}
	defer func() { _ = thumbResp.Body.Close() }()
	body := make([]byte, 16)
	n, _ := thumbResp.Body.Read(body)
	if n != 3 || body[0] != 0xFF || body[1] != 0xD8 || body[2] != 0xFF {
		t.Fatalf("thumbnail bytes = %v, want 3-byte JPEG SOI marker", body[:n])
	}
}

// TestScanRegisterServe_SameImageDifferentPath registers two copies of the
// same logical image (equal file GUID, different paths) and confirms the
// second is reported as ImageAlreadyRegistered rather than duplicated.
func TestScanRegisterServe_SameImageDifferentPath(t *testing.T) {
	dir := t.TempDir()
	guid := testGUID(0x42)
	buildMinimalCZI(t, filepath.Join(dir, "copy1.czi"), guid, guid, "DuplicateSample", nil)
	buildMinimalCZI(t, filepath.Join(dir, "copy2.czi"), guid, guid, "DuplicateSample", nil)

	store, err := registry.Open(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	defer func() { _ = store.Close() }()

	backend, err := discover.NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("new local backend: %v", err)
	}
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	scanner := discover.NewScanner(backend, store)
	result, err := scanner.Scan(ctx, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.Registered != 1 {
		t.Fatalf("registered = %d, want 1 (second copy must not duplicate the image row)", result.Registered)
	}

	descriptors, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("len(descriptors) = %d, want 1", len(descriptors))
	}
	if len(descriptors[0].KnownFilenames) != 2 {
		t.Fatalf("known filenames = %v, want both copy1.czi and copy2.czi", descriptors[0].KnownFilenames)
	}
}

// TestScanRegisterServe_MultiPartPrimary registers a secondary part of a
// multi-part acquisition and confirms the registry records its primary
// file's GUID as the parent.
func TestScanRegisterServe_MultiPartPrimary(t *testing.T) {
	dir := t.TempDir()
	primaryGUID := testGUID(0x50)
	partGUID := testGUID(0x60)
	buildMinimalCZI(t, filepath.Join(dir, "part1.czi"), primaryGUID, primaryGUID, "MultiPart", nil)
	buildMinimalCZI(t, filepath.Join(dir, "part2.czi"), partGUID, primaryGUID, "MultiPart", nil)

	store, err := registry.Open(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	defer func() { _ = store.Close() }()

	backend, err := discover.NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("new local backend: %v", err)
	}
	defer func() { _ = backend.Close() }()

	ctx := context.Background()
	scanner := discover.NewScanner(backend, store)
	if _, err := scanner.Scan(ctx, ""); err != nil {
		t.Fatalf("scan: %v", err)
	}

	descriptors, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("len(descriptors) = %d, want 2 distinct images", len(descriptors))
	}

	wantPart := guidString(t, partGUID)
	wantPrimary := guidString(t, primaryGUID)

	var foundPart bool
	for _, d := range descriptors {
		if d.GUID.String() == wantPart {
			foundPart = true
			if d.ParentGUID == nil {
				t.Fatal("secondary part's ParentGUID is nil, want the primary's GUID")
			}
			if d.ParentGUID.String() != wantPrimary {
				t.Fatalf("ParentGUID = %s, want %s", d.ParentGUID, wantPrimary)
			}
		}
	}
	if !foundPart {
		t.Fatal("did not find the secondary part's descriptor")
	}
}
