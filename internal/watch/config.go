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
	"time"
)

// Config holds configuration for one watched directory.
type Config struct {
	// Source is the local directory to watch for new or changed CZI files.
	Source string

	// DebounceDelay is how long to wait after the last filesystem event
	// before scanning the files it touched.
	DebounceDelay time.Duration

	// MinAge is the minimum time since a file's last write before it is
	// scanned, so a writer still mid-copy doesn't get opened partway
	// through (a segment's allocated_size can legitimately run past what's
	// been flushed to disk so far).
	MinAge time.Duration

	// ExcludePatterns are glob patterns (matched against the base name)
	// for paths to ignore entirely.
	ExcludePatterns []string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay:   5 * time.Second,
		MinAge:          10 * time.Second,
		ExcludePatterns: []string{".git/**", ".DS_Store", "*.tmp", "*.swp"},
	}
}

// WatchStatus represents the current state of a watcher.
type WatchStatus struct {
	Source          string    `json:"source"`
	Active          bool      `json:"active"`
	StartedAt       time.Time `json:"started_at"`
	LastScan        time.Time `json:"last_scan"`
	FilesRegistered int64     `json:"files_registered"`
	ErrorCount      int       `json:"error_count"`
	LastError       string    `json:"last_error,omitempty"`
}
