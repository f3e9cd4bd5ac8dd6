// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// ClientStorages groups the client-side persistence used by the service layer.
type ClientStorages struct {
	// SessionStorage persists the authenticated session between runs.
	SessionStorage SessionStorage
}

// NewClientStorages opens the backend selected by cfg.Backend. The SQLite
// backend creates the database file if needed and applies migrations.
func NewClientStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Str("backend", cfg.Backend).Msg("creating new storages...")

	switch cfg.Backend {
	case config.StorageBackendSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return &ClientStorages{SessionStorage: NewSQLiteSessionStorage(db, log)}, nil

	case config.StorageBackendFile:
		storage, err := NewFileSessionStorage(cfg.SessionFile, log)
		if err != nil {
			return nil, err
		}
		return &ClientStorages{SessionStorage: storage}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Close releases the underlying resources.
func (s *ClientStorages) Close() error {
	return s.SessionStorage.Close()
}
