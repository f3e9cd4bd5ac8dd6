// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const sessionTable = "session_kv"

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var sessionKeys = []string{KeySessionToken, KeyUser}

func buildSelectSessionQuery() (string, []any, error) {
	query, args, err := sqlite.
		Select("key", "value").
		From(sessionTable).
		Where(sq.Eq{"key": sessionKeys}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertSessionQuery(record SessionRecord, now time.Time) (string, []any, error) {
	query, args, err := sqlite.
		Insert(sessionTable).
		Columns("key", "value", "updated_at").
		Values(KeySessionToken, record.Token, now).
		Values(KeyUser, record.User, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteSessionQuery() (string, []any, error) {
	query, args, err := sqlite.
		Delete(sessionTable).
		Where(sq.Eq{"key": sessionKeys}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
