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

// Package registry persists the images the core ZISRAW reader has seen,
// keyed by image GUID, so that many physical copies of the same logical
// image spread across a filesystem resolve to one registry row instead of
// many. It is a thin, out-of-core collaborator: the core reader supplies
// the facts (GUIDs, timestamp, filename, XML, thumbnail), this package only
// stores and looks them up.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/scttfrdmn/zisraw/internal/zisraw"
)

const (
	imagesTableCreate = `create table if not exists images (
		guid TEXT primary key,
		parent_guid TEXT,
		file_part integer not null,
		acquisition_timestamp integer not null,
		original_path TEXT not null,
		original_image_name TEXT,
		metadata_xml TEXT not null,
		thumbnail_type TEXT,
		thumbnail BLOB
	)`

	filesTableCreate = `create table if not exists files (
		filename TEXT not null primary key,
		image_guid TEXT not null references images(guid)
	)`
)

// Outcome reports what Register did with a file.
type Outcome int

const (
	// Inserted means a new image row was created for a previously unseen
	// file GUID.
	Inserted Outcome = iota
	// ImageAlreadyRegistered means the file's GUID was already known under
	// a different path; ExistingPaths on the returned result lists them.
	ImageAlreadyRegistered
	// FileAlreadyRegistered means this exact path was already registered.
	FileAlreadyRegistered
)

// RegisterResult is the outcome of a single Register call.
type RegisterResult struct {
	Outcome       Outcome
	GUID          uuid.UUID
	ExistingPaths []string
}

// ImageDescriptor is the query-facing view of a registered image.
type ImageDescriptor struct {
	Timestamp      time.Time
	GUID           uuid.UUID
	ParentGUID     *uuid.UUID
	OriginalPath   string
	FilePart       int32
	KnownFilenames []string
}

// Store is a SQLite-backed registry of images and their known file copies.
// It opens a pure-Go, cgo-free sqlite connection (modernc.org/sqlite),
// matching the no-cgo posture the CZI extraction code this package replaces
// already assumed.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the registry database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create registry directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; concurrent readers go through WAL
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(imagesTableCreate); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create images table: %w", err)
	}
	if _, err := db.Exec(filesTableCreate); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create files table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) hasImage(ctx context.Context, guid uuid.UUID) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM images WHERE guid = ?", guid.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query image existence: %w", err)
	}
	return true, nil
}

func (s *Store) hasFile(ctx context.Context, path string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM files WHERE filename = ?", path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query file existence: %w", err)
	}
	return true, nil
}

// Register opens path on the local filesystem with the core ZISRAW reader
// and registers it. It is a convenience wrapper around RegisterOpened for
// the common local-file case; discover.Scanner calls RegisterOpened
// directly so it can register files read through a non-local Backend (S3)
// without a local path to open.
func (s *Store) Register(ctx context.Context, path string) (*RegisterResult, error) {
	f, err := zisraw.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return s.RegisterOpened(ctx, path, f)
}

// RegisterOpened extracts the facts the registry needs from an already
// opened file and inserts or reconciles a row, keyed on the given label
// (the local path, or the storage key a Backend addresses it by). It
// distinguishes FileAlreadyRegistered (this exact path is known),
// ImageAlreadyRegistered (same GUID under another path), and Inserted.
func (s *Store) RegisterOpened(ctx context.Context, path string, f *zisraw.File) (*RegisterResult, error) {
	alreadyFile, err := s.hasFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if alreadyFile {
		return &RegisterResult{Outcome: FileAlreadyRegistered}, nil
	}

	guid := f.Header.FileGUID.UUID()

	alreadyImage, err := s.hasImage(ctx, guid)
	if err != nil {
		return nil, err
	}
	if alreadyImage {
		existing, err := s.lookupFilenames(ctx, guid)
		if err != nil {
			return nil, err
		}
		if err := s.insertFilename(ctx, path, guid); err != nil {
			return nil, err
		}
		return &RegisterResult{Outcome: ImageAlreadyRegistered, GUID: guid, ExistingPaths: existing}, nil
	}

	metaXML, err := f.MetadataXML()
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	timestamp, err := f.Timestamp()
	if err != nil {
		return nil, fmt.Errorf("read timestamp: %w", err)
	}
	imageName, _ := f.OriginalImageName() // optional; absent in many writers

	var parentGUID *string
	if !f.Header.IsPrimary() {
		s := f.Header.PrimaryFileGUID.String()
		parentGUID = &s
	}

	var thumbType *string
	var thumbData []byte
	if thumb, err := f.Thumbnail(); err == nil && thumb != nil {
		t := thumb.Entry.ContentFileType
		thumbType = &t
		data, err := thumb.Data.Get()
		if err == nil {
			thumbData = data
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO images (guid, parent_guid, file_part, acquisition_timestamp, original_path, original_image_name, metadata_xml, thumbnail_type, thumbnail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		guid.String(), parentGUID, f.Header.FilePart, timestamp.Unix(), path, imageName, metaXML, thumbType, thumbData,
	)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}

	if err := s.insertFilename(ctx, path, guid); err != nil {
		return nil, err
	}

	return &RegisterResult{Outcome: Inserted, GUID: guid}, nil
}

func (s *Store) insertFilename(ctx context.Context, path string, guid uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO files (filename, image_guid) VALUES (?, ?)", path, guid.String())
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (s *Store) lookupFilenames(ctx context.Context, guid uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT filename FROM files WHERE image_guid = ?", guid.String())
	if err != nil {
		return nil, fmt.Errorf("query filenames: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Describe returns the descriptor for guid, or false if it is not
// registered.
func (s *Store) Describe(ctx context.Context, guid uuid.UUID) (*ImageDescriptor, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT guid, parent_guid, file_part, acquisition_timestamp, original_path FROM images WHERE guid = ?",
		guid.String())
	desc, err := scanDescriptor(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	names, err := s.lookupFilenames(ctx, desc.GUID)
	if err != nil {
		return nil, false, err
	}
	desc.KnownFilenames = names
	return desc, true, nil
}

// List returns every registered image descriptor.
func (s *Store) List(ctx context.Context) ([]*ImageDescriptor, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT guid, parent_guid, file_part, acquisition_timestamp, original_path FROM images ORDER BY acquisition_timestamp")
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var descriptors []*ImageDescriptor
	for rows.Next() {
		desc, err := scanDescriptorRows(rows)
		if err != nil {
			return nil, err
		}
		names, err := s.lookupFilenames(ctx, desc.GUID)
		if err != nil {
			return nil, err
		}
		desc.KnownFilenames = names
		descriptors = append(descriptors, desc)
	}
	return descriptors, rows.Err()
}

// ThumbnailByGUID returns the stored thumbnail bytes and content type for
// guid. ok is false if the image is unregistered or has no thumbnail.
func (s *Store) ThumbnailByGUID(ctx context.Context, guid uuid.UUID) (data []byte, contentType string, ok bool, err error) {
	var thumbType sql.NullString
	var thumb []byte
	row := s.db.QueryRowContext(ctx, "SELECT thumbnail_type, thumbnail FROM images WHERE guid = ?", guid.String())
	if err := row.Scan(&thumbType, &thumb); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("query thumbnail: %w", err)
	}
	if len(thumb) == 0 {
		return nil, "", false, nil
	}
	return thumb, thumbType.String, true, nil
}

// MetadataXMLByGUID returns the raw metadata XML stored for guid.
func (s *Store) MetadataXMLByGUID(ctx context.Context, guid uuid.UUID) (string, bool, error) {
	var xml string
	row := s.db.QueryRowContext(ctx, "SELECT metadata_xml FROM images WHERE guid = ?", guid.String())
	if err := row.Scan(&xml); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query metadata xml: %w", err)
	}
	return xml, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDescriptor(row *sql.Row) (*ImageDescriptor, error) {
	return scanDescriptorRows(row)
}

func scanDescriptorRows(row rowScanner) (*ImageDescriptor, error) {
	var guidStr string
	var parentGUIDStr sql.NullString
	var filePart int32
	var unixTimestamp int64
	var originalPath string

	if err := row.Scan(&guidStr, &parentGUIDStr, &filePart, &unixTimestamp, &originalPath); err != nil {
		return nil, err
	}

	guid, err := uuid.Parse(guidStr)
	if err != nil {
		return nil, fmt.Errorf("parse guid: %w", err)
	}

	var parentGUID *uuid.UUID
	if parentGUIDStr.Valid && parentGUIDStr.String != "" {
		p, err := uuid.Parse(parentGUIDStr.String)
		if err != nil {
			return nil, fmt.Errorf("parse parent guid: %w", err)
		}
		parentGUID = &p
	}

	return &ImageDescriptor{
		Timestamp:    time.Unix(unixTimestamp, 0),
		GUID:         guid,
		ParentGUID:   parentGUID,
		OriginalPath: originalPath,
		FilePart:     filePart,
	}, nil
}
