// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Persisted key names.
const (
	KeySessionToken = "sessionToken"
	KeyUser         = "user"
)

// SessionRecord is the persisted form of a session: the credential and the
// JSON-encoded identity, stored under [KeySessionToken] and [KeyUser].
// A record may be partial when storage was tampered with; callers treat that
// as corrupt.
type SessionRecord struct {
	Token string
	User  string
}

// SessionStorage persists the session record. Save and Clear write both keys
// in one atomic step, so readers never observe one key updated without the
// other.
type SessionStorage interface {
	// Load returns the stored record, or [ErrLocalSessionNotFound] when
	// neither key is present.
	Load(ctx context.Context) (SessionRecord, error)
	Save(ctx context.Context, record SessionRecord) error
	Clear(ctx context.Context) error
	Close() error
}
