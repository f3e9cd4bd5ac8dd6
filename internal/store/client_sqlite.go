// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// sqliteSessionStorage keeps the session in the session_kv table.
type sqliteSessionStorage struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteSessionStorage returns a [SessionStorage] on top of db. The schema
// must already be migrated.
func NewSQLiteSessionStorage(db *DB, log *logger.Logger) SessionStorage {
	return &sqliteSessionStorage{db: db, logger: log, now: time.Now}
}

func (s *sqliteSessionStorage) Load(ctx context.Context) (SessionRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSessionQuery()
	if err != nil {
		return SessionRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqliteSessionStorage.Load").Msg("failed to query session")
		return SessionRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var record SessionRecord
	found := 0
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			log.Err(err).Str("func", "sqliteSessionStorage.Load").Msg("failed to scan session row")
			return SessionRecord{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		switch key {
		case KeySessionToken:
			record.Token = value
		case KeyUser:
			record.User = value
		}
		found++
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "sqliteSessionStorage.Load").Msg("error occurred during rows iteration")
		return SessionRecord{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if found == 0 {
		return SessionRecord{}, ErrLocalSessionNotFound
	}
	return record, nil
}

func (s *sqliteSessionStorage) Save(ctx context.Context, record SessionRecord) error {
	query, args, err := buildUpsertSessionQuery(record, s.now().UTC())
	if err != nil {
		return err
	}
	return s.inTx(ctx, "sqliteSessionStorage.Save", query, args)
}

func (s *sqliteSessionStorage) Clear(ctx context.Context) error {
	query, args, err := buildDeleteSessionQuery()
	if err != nil {
		return err
	}
	return s.inTx(ctx, "sqliteSessionStorage.Clear", query, args)
}

func (s *sqliteSessionStorage) Close() error {
	return s.db.Close()
}

// inTx runs a single statement in its own transaction.
func (s *sqliteSessionStorage) inTx(ctx context.Context, fn, query string, args []any) error {
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute statement")
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", fn).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
