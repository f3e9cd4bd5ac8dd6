// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/migrations"
)

// Storages groups the repositories of the development server.
type Storages struct {
	UserRepository         UserRepository
	TaskRepository         TaskRepository
	ConversationRepository ConversationRepository

	db *DB
}

// NewStorages opens the development server database at dsn and applies its
// migrations. An in-memory DSN gives a fresh store on every start.
func NewStorages(ctx context.Context, dsn string, log *logger.Logger) (*Storages, error) {
	log.Info().Str("dsn", dsn).Msg("creating new devserver storages...")

	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = migrations.MigrateDevServer(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		TaskRepository:         NewTaskRepository(db, log),
		ConversationRepository: NewConversationRepository(db, log),
		db:                     db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
