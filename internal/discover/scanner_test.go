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
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/scttfrdmn/zisraw/internal/registry"
	"github.com/scttfrdmn/zisraw/internal/testutil"
)

// buildMinimalCZI writes a synthetic CZI file just complete enough for the
// registry to register it: a FileHeader, an empty Directory, and a Metadata
// segment with the handful of XML elements the registry reads.
func buildMinimalCZI(t *testing.T, path string, guid [16]byte, imageName string) {
	t.Helper()

	xml := `<Metadata>
  <Information>
    <Image>
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
	)

	fileHeaderPayload := make([]byte, headerAllocSize)
	copy(fileHeaderPayload[16:32], guid[:])
	copy(fileHeaderPayload[32:48], guid[:])
	binary.LittleEndian.PutUint64(fileHeaderPayload[52:60], uint64(dirPos))
	binary.LittleEndian.PutUint64(fileHeaderPayload[60:68], uint64(metaPos))

	dirPayload := make([]byte, dirAllocSize)

	metaPayload := make([]byte, metaAllocSize)
	binary.LittleEndian.PutUint32(metaPayload[0:4], uint32(len(xml)))
	copy(metaPayload[256:256+len(xml)], xml)

	buf := make([]byte, metaPos+32+metaAllocSize)
	writeSegment(buf, 0, "ZISRAWFILE", fileHeaderPayload)
	writeSegment(buf, dirPos, "ZISRAWDIRECTORY", dirPayload)
	writeSegment(buf, metaPos, "ZISRAWMETADATA", metaPayload)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func writeSegment(buf []byte, offset int64, tag string, payload []byte) {
	idField := make([]byte, 16)
	copy(idField, tag)
	copy(buf[offset:offset+16], idField)
	binary.LittleEndian.PutUint64(buf[offset+16:offset+24], uint64(len(payload)))
	binary.LittleEndian.PutUint64(buf[offset+24:offset+32], uint64(len(payload)))
	copy(buf[offset+32:offset+32+int64(len(payload))], payload)
}

func guidBytes(seed byte) [16]byte {
	var g [16]byte
	for i := range g {
		g[i] = seed + byte(i)
	}
	return g
}

func openTestStore(t *testing.T, dir string) *registry.Store {
	t.Helper()
	store, err := registry.Open(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatalf("registry.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestScanner_ScanFile(t *testing.T) {
	dir := testutil.TempDir(t)
	backend, err := NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("NewLocalBackend() error: %v", err)
	}
	store := openTestStore(t, dir)
	scanner := NewScanner(backend, store)

	buildMinimalCZI(t, filepath.Join(dir, "sample.czi"), guidBytes(1), "sample.czi")

	result, err := scanner.ScanFile(context.Background(), "sample.czi")
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if result.Outcome != registry.Inserted {
		t.Fatalf("Outcome = %v, want Inserted", result.Outcome)
	}
}

func TestScanner_Scan(t *testing.T) {
	dir := testutil.TempDir(t)
	backend, err := NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("NewLocalBackend() error: %v", err)
	}
	store := openTestStore(t, dir)
	scanner := NewScanner(backend, store)

	buildMinimalCZI(t, filepath.Join(dir, "a.czi"), guidBytes(1), "a.czi")
	buildMinimalCZI(t, filepath.Join(dir, "b.czi"), guidBytes(2), "b.czi")
	testutil.WriteFile(t, dir, "notes.txt", "not a CZI file")

	result, err := scanner.Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if result.Scanned != 2 {
		t.Fatalf("Scanned = %d, want 2", result.Scanned)
	}
	if result.Registered != 2 {
		t.Fatalf("Registered = %d, want 2", result.Registered)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", result.Errors)
	}

	descriptors, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("List() returned %d descriptors, want 2", len(descriptors))
	}
}

func TestScanner_ScanFileAlreadyRegistered(t *testing.T) {
	dir := testutil.TempDir(t)
	backend, err := NewLocalBackend(dir)
	if err != nil {
		t.Fatalf("NewLocalBackend() error: %v", err)
	}
	store := openTestStore(t, dir)
	scanner := NewScanner(backend, store)

	buildMinimalCZI(t, filepath.Join(dir, "sample.czi"), guidBytes(5), "sample.czi")

	ctx := context.Background()
	if _, err := scanner.ScanFile(ctx, "sample.czi"); err != nil {
		t.Fatalf("first ScanFile() error: %v", err)
	}
	result, err := scanner.ScanFile(ctx, "sample.czi")
	if err != nil {
		t.Fatalf("second ScanFile() error: %v", err)
	}
	if result.Outcome != registry.FileAlreadyRegistered {
		t.Fatalf("Outcome = %v, want FileAlreadyRegistered", result.Outcome)
	}
}

func TestLooksLikeCZI(t *testing.T) {
	cases := map[string]bool{
		"sample.czi":       true,
		"SAMPLE.CZI":       true,
		"sample.cz1":       true,
		"sample.cz5":       true,
		"sample.czi.bak":   false,
		"notes.txt":        false,
		"dir/nested/a.czi": true,
	}
	for path, want := range cases {
		if got := LooksLikeCZI(path); got != want {
			t.Errorf("LooksLikeCZI(%q) = %v, want %v", path, got, want)
		}
	}
}
