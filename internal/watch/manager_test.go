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

package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/scttfrdmn/zisraw/internal/registry"
	"github.com/scttfrdmn/zisraw/internal/testutil"
)

func openTestStore(t *testing.T) *registry.Store {
	t.Helper()
	dir := testutil.TempDir(t)
	store, err := registry.Open(filepath.Join(dir, "registry.db"))
	if err != nil {
		t.Fatalf("registry.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestManager_NewManager(t *testing.T) {
	manager := NewManager(openTestStore(t))

	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}

	if manager.watchers == nil {
		t.Error("watchers map not initialized")
	}

	if len(manager.watchers) != 0 {
		t.Errorf("watchers map has %d entries, want 0", len(manager.watchers))
	}
}

func TestManager_List_Empty(t *testing.T) {
	manager := NewManager(openTestStore(t))

	statuses := manager.List()

	if statuses == nil {
		t.Fatal("List() returned nil")
	}

	if len(statuses) != 0 {
		t.Errorf("List() returned %d statuses, want 0", len(statuses))
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(openTestStore(t))

	watcher, exists := manager.Get("nonexistent")

	if exists {
		t.Error("Get() returned exists=true for nonexistent watch")
	}

	if watcher != nil {
		t.Error("Get() returned non-nil watcher for nonexistent watch")
	}
}

func TestManager_Remove_NotFound(t *testing.T) {
	manager := NewManager(openTestStore(t))

	err := manager.Remove("nonexistent")

	if err == nil {
		t.Error("Remove() returned nil error for nonexistent watch")
	}
}

func TestManager_StopAll_Empty(t *testing.T) {
	manager := NewManager(openTestStore(t))
	ctx := context.Background()

	err := manager.StopAll(ctx)

	if err != nil {
		t.Errorf("StopAll() returned error: %v", err)
	}

	statuses := manager.List()
	if len(statuses) != 0 {
		t.Errorf("After StopAll(), %d watches remain, want 0", len(statuses))
	}
}

func TestManager_AddAndRemove(t *testing.T) {
	manager := NewManager(openTestStore(t))
	watchDir := testutil.TempDir(t)

	cfg := Config{
		Source:        watchDir,
		DebounceDelay: 10 * time.Millisecond,
		MinAge:        0,
	}

	if err := manager.Add("w1", cfg); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if _, exists := manager.Get("w1"); !exists {
		t.Fatal("Get() after Add() exists=false")
	}

	statuses := manager.List()
	if len(statuses) != 1 {
		t.Fatalf("List() returned %d statuses, want 1", len(statuses))
	}
	if !statuses["w1"].Active {
		t.Error("watch w1 not active after Add()")
	}

	if err := manager.Add("w1", cfg); err == nil {
		t.Error("Add() with duplicate id returned nil error")
	}

	if err := manager.Remove("w1"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, exists := manager.Get("w1"); exists {
		t.Error("Get() after Remove() exists=true")
	}
}

func TestWatchStatus_ErrorTracking(t *testing.T) {
	status := WatchStatus{
		Source:     "/test",
		Active:     true,
		StartedAt:  time.Now(),
		ErrorCount: 5,
		LastError:  "test error",
	}

	if status.ErrorCount != 5 {
		t.Errorf("ErrorCount = %d, want 5", status.ErrorCount)
	}

	if status.LastError != "test error" {
		t.Errorf("LastError = %s, want 'test error'", status.LastError)
	}
}

func TestWatchStatus_ScanTracking(t *testing.T) {
	now := time.Now()
	status := WatchStatus{
		Source:          "/test",
		Active:          true,
		StartedAt:       now,
		LastScan:        now.Add(1 * time.Minute),
		FilesRegistered: 100,
	}

	if status.FilesRegistered != 100 {
		t.Errorf("FilesRegistered = %d, want 100", status.FilesRegistered)
	}

	if status.LastScan.Before(status.StartedAt) {
		t.Error("LastScan is before StartedAt")
	}
}
