// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// fileDocument is the on-disk layout; keys mirror the SQLite backend.
type fileDocument struct {
	SessionToken *string `json:"sessionToken,omitempty"`
	User         *string `json:"user,omitempty"`
}

// fileSessionStorage keeps the session in a single JSON document replaced
// by rename, so both keys change together.
type fileSessionStorage struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewFileSessionStorage returns a [SessionStorage] writing to path. The
// parent directory is created if missing.
func NewFileSessionStorage(path string, log *logger.Logger) (SessionStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &fileSessionStorage{path: path, logger: log}, nil
}

func (f *fileSessionStorage) Load(ctx context.Context) (SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return SessionRecord{}, ErrLocalSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("%w: %w", ErrReadingSessionFile, err)
	}

	var doc fileDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "fileSessionStorage.Load").Msg("session file is not valid JSON")
		// an unreadable document is reported as a partial record so the
		// caller discards it
		return SessionRecord{}, nil
	}
	if doc.SessionToken == nil && doc.User == nil {
		return SessionRecord{}, ErrLocalSessionNotFound
	}

	var record SessionRecord
	if doc.SessionToken != nil {
		record.Token = *doc.SessionToken
	}
	if doc.User != nil {
		record.User = *doc.User
	}
	return record, nil
}

func (f *fileSessionStorage) Save(ctx context.Context, record SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(fileDocument{SessionToken: &record.Token, User: &record.User}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}
	return f.writeAtomic(append(data, '\n'))
}

func (f *fileSessionStorage) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Err(err).Str("func", "fileSessionStorage.Clear").Msg("failed to remove session file")
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}
	return nil
}

func (f *fileSessionStorage) Close() error {
	return nil
}

// writeAtomic writes data to a temporary file in the same directory, fsyncs
// it and renames it over the session file. Readers see either the old or the
// new document.
func (f *fileSessionStorage) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}

	if err = os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrWritingSessionFile, err)
	}

	if dir, err := os.Open(filepath.Dir(f.path)); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}
