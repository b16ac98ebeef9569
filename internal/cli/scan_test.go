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

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanCmd_LocalDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	origHome := os.Getenv("HOME")
	if err := os.Setenv("HOME", tmpDir); err != nil {
		t.Fatalf("Setenv() error: %v", err)
	}
	defer func() { _ = os.Setenv("HOME", origHome) }()

	scanRoot := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(scanRoot, 0755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	guid := testGUID(11)
	buildMinimalCZI(t, filepath.Join(scanRoot, "a.czi"), guid, guid, "a.czi")
	if err := os.WriteFile(filepath.Join(scanRoot, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cmd := NewScanCmd()
	cmd.SetArgs([]string{scanRoot})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
}
