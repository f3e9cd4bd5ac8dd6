// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the SQLite schemas of the client's local session
// database (client/) and of the development server (devserver/).
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql devserver/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Migrate applies every pending client migration to db.
func Migrate(db *sql.DB) error {
	return up(db, "client")
}

// MigrateDevServer applies every pending development server migration to db.
func MigrateDevServer(db *sql.DB) error {
	return up(db, "devserver")
}

func up(db *sql.DB, dir string) error {
	if db == nil {
		return errors.New("migration error: nil database")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
