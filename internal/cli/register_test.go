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

func TestRegisterCmd(t *testing.T) {
	tmpDir := t.TempDir()
	origHome := os.Getenv("HOME")
	if err := os.Setenv("HOME", tmpDir); err != nil {
		t.Fatalf("Setenv() error: %v", err)
	}
	defer func() { _ = os.Setenv("HOME", origHome) }()

	czPath := filepath.Join(tmpDir, "sample.czi")
	guid := testGUID(9)
	buildMinimalCZI(t, czPath, guid, guid, "sample.czi")

	cmd := NewRegisterCmd()
	cmd.SetArgs([]string{czPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	// Registering the same path again should report FileAlreadyRegistered,
	// not error.
	cmd = NewRegisterCmd()
	cmd.SetArgs([]string{czPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("second Command failed: %v", err)
	}
}

func TestRegisterCmd_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	origHome := os.Getenv("HOME")
	if err := os.Setenv("HOME", tmpDir); err != nil {
		t.Fatalf("Setenv() error: %v", err)
	}
	defer func() { _ = os.Setenv("HOME", origHome) }()

	cmd := NewRegisterCmd()
	cmd.SetArgs([]string{filepath.Join(tmpDir, "missing.czi")})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for non-existent file")
	}
}
