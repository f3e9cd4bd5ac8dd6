// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

func newFileStorage(t *testing.T) (SessionStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.json")
	s, err := NewFileSessionStorage(path, logger.Nop())
	require.NoError(t, err)
	return s, path
}

func TestFileSessionStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStorage(t)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)

	require.NoError(t, s.Save(ctx, SessionRecord{Token: "tok", User: `{"id":"u1"}`}))

	record, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionRecord{Token: "tok", User: `{"id":"u1"}`}, record)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)

	// clearing twice is fine
	require.NoError(t, s.Clear(ctx))
}

func TestFileSessionStorage_LeavesNoTemporaryFiles(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStorage(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, SessionRecord{Token: "t", User: "u"}))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestFileSessionStorage_CorruptDocument(t *testing.T) {
	s, path := newFileStorage(t)
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o600))

	record, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SessionRecord{}, record)
}

func TestFileSessionStorage_PartialDocument(t *testing.T) {
	s, path := newFileStorage(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"sessionToken":"tok"}`), 0o600))

	record, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SessionRecord{Token: "tok"}, record)
}
