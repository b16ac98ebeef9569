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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scttfrdmn/zisraw/internal/discover"
)

// Watcher monitors a directory and registers CZI files as they appear.
type Watcher struct {
	config    Config
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	scanner   *discover.Scanner
	status    WatchStatus
	pending   map[string]struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// New creates a new watcher over config.Source, registering discoveries
// through scanner. scanner's Backend must be rooted at config.Source, since
// paths collected from fsnotify events are made relative to it before being
// handed to Scanner.ScanFile.
func New(config Config, scanner *discover.Scanner) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		config:    config,
		fsWatcher: fsWatcher,
		scanner:   scanner,
		pending:   make(map[string]struct{}),
		ctx:       ctx,
		cancel:    cancel,
		status: WatchStatus{
			Source: config.Source,
			Active: false,
		},
	}

	w.debouncer = NewDebouncer(config.DebounceDelay, w.triggerScan)

	return w, nil
}

// Start begins watching the configured directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.status.Active {
		w.mu.Unlock()
		return fmt.Errorf("watcher already active")
	}
	w.status.Active = true
	w.status.StartedAt = time.Now()
	w.mu.Unlock()

	if err := w.addRecursive(w.config.Source); err != nil {
		w.status.Active = false
		return fmt.Errorf("add watch directories: %w", err)
	}

	w.wg.Add(1)
	go w.eventLoop()

	return nil
}

// Stop stops the watcher gracefully.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.status.Active {
		w.mu.Unlock()
		return fmt.Errorf("watcher not active")
	}
	w.status.Active = false
	w.mu.Unlock()

	w.debouncer.Stop()
	w.cancel()
	w.wg.Wait()

	return w.fsWatcher.Close()
}

// Status returns current watcher status.
func (w *Watcher) Status() WatchStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// eventLoop processes file system events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.recordError(err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldExclude(event.Name) {
		return
	}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
		w.markPending(event.Name)

	case event.Op&fsnotify.Write == fsnotify.Write:
		w.markPending(event.Name)

	case event.Op&fsnotify.Rename == fsnotify.Rename:
		w.markPending(event.Name)
	}
}

// markPending queues path for the next debounced scan, if it looks like a
// CZI file at all; excludes save the work of opening and rejecting every
// sidecar or temp file a microscope acquisition tool also writes.
func (w *Watcher) markPending(path string) {
	if !discover.LooksLikeCZI(path) {
		return
	}
	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()
	w.debouncer.Trigger()
}

// triggerScan registers every path queued since the last scan.
func (w *Watcher) triggerScan() {
	if w.config.MinAge > 0 {
		time.Sleep(w.config.MinAge)
	}

	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	var registered int64
	var lastErr error
	for _, path := range paths {
		rel, err := filepath.Rel(w.config.Source, path)
		if err != nil {
			rel = path
		}
		if _, err := w.scanner.ScanFile(w.ctx, rel); err != nil {
			lastErr = err
			continue
		}
		registered++
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.LastScan = time.Now()
	w.status.FilesRegistered += registered
	if lastErr != nil {
		w.status.ErrorCount++
		w.status.LastError = lastErr.Error()
	}
}

// addRecursive adds a directory and all subdirectories to watch.
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldExclude(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("add watch on %s: %w", path, err)
		}
		return nil
	})
}

// shouldExclude checks if path matches any exclude pattern.
func (w *Watcher) shouldExclude(path string) bool {
	for _, pattern := range w.config.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// recordError updates error statistics.
func (w *Watcher) recordError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status.ErrorCount++
	w.status.LastError = err.Error()
}
