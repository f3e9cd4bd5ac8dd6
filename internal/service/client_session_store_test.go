// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSessionStore(t *testing.T, ctrl *gomock.Controller) (*clientSessionStore, *mock.MockServerAdapter, *mock.MockSessionStorage) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockStorage := mock.NewMockSessionStorage(ctrl)
	s := NewClientSessionStore(mockAdapter, mockStorage, logger.Nop()).(*clientSessionStore)
	return s, mockAdapter, mockStorage
}

// newFileBackedSessionStore uses a real file storage in a temp dir.
func newFileBackedSessionStore(t *testing.T, ctrl *gomock.Controller) (*clientSessionStore, *mock.MockServerAdapter, store.SessionStorage) {
	t.Helper()
	storage, err := store.NewFileSessionStorage(filepath.Join(t.TempDir(), "session.json"), logger.Nop())
	require.NoError(t, err)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	return NewClientSessionStore(mockAdapter, storage, logger.Nop()).(*clientSessionStore), mockAdapter, storage
}

var authOK = models.AuthResponse{
	Token: "token-1",
	User:  models.WireUser{ID: "u-1", Email: "a@b.com", Name: "Ann"},
}

// ── Login / Register ────────────────────────────────────────────────────────

func TestClientSessionStore_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, mockStorage := newTestSessionStore(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "x"}).Return(authOK, nil),
		mockStorage.EXPECT().Save(ctx, store.SessionRecord{
			Token: "token-1",
			User:  `{"id":"u-1","email":"a@b.com","name":"Ann"}`,
		}).Return(nil),
	)

	session, err := s.Login(ctx, " a@b.com ", "x")
	require.NoError(t, err)
	assert.Equal(t, models.SessionAuthenticated, session.Status)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "u-1", session.User.ID)
	assert.Equal(t, "token-1", s.Token())
	assert.True(t, s.Current().IsAuthenticated())
}

func TestClientSessionStore_Login_FailureStaysAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, _ := newTestSessionStore(t, ctrl)
	remote := &models.APIError{Code: app.CodeInvalidCredentials, Message: "Invalid email or password", Kind: adapter.ErrUnauthorized}
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.AuthResponse{}, remote)

	session, err := s.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, "AUTH_001: Invalid email or password", err.Error())

	assert.Equal(t, models.SessionAnonymous, session.Status)
	assert.Empty(t, s.Token())
}

func TestClientSessionStore_Login_LocalValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, _ := newTestSessionStore(t, ctrl)

	_, err := s.Login(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Login(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientSessionStore_Login_IncompleteResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, _ := newTestSessionStore(t, ctrl)
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.AuthResponse{User: authOK.User}, nil)

	_, err := s.Login(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, adapter.ErrRemote)
	assert.False(t, s.Current().IsAuthenticated())
}

func TestClientSessionStore_Login_PersistFailureKeepsLiveSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, mockStorage := newTestSessionStore(t, ctrl)
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(authOK, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	session, err := s.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
}

func TestClientSessionStore_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, mockStorage := newTestSessionStore(t, ctrl)
	mockAdapter.EXPECT().Register(gomock.Any(), models.RegisterRequest{Email: "a@b.com", Password: "x", Name: "Ann"}).Return(authOK, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	session, err := s.Register(context.Background(), "a@b.com", "x", " Ann ")
	require.NoError(t, err)
	assert.Equal(t, "Ann", session.User.Name)
}

// ── Logout ──────────────────────────────────────────────────────────────────

func TestClientSessionStore_Logout_RemoteFailureStillClears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, storage := newFileBackedSessionStore(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(authOK, nil)
	_, err := s.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)

	_, err = storage.Load(ctx)
	require.NoError(t, err)

	mockAdapter.EXPECT().Logout(gomock.Any()).Return(
		&models.APIError{Code: app.CodeNetwork, Message: app.MsgNetwork, Kind: adapter.ErrNetwork})

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, models.SessionAnonymous, s.Current().Status)
	assert.Empty(t, s.Token())

	_, err = storage.Load(ctx)
	assert.ErrorIs(t, err, store.ErrLocalSessionNotFound)
}

func TestClientSessionStore_Logout_AnonymousSkipsRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, mockStorage := newTestSessionStore(t, ctrl)
	mockStorage.EXPECT().Clear(gomock.Any()).Return(nil)

	require.NoError(t, s.Logout(context.Background()))
}

func TestClientSessionStore_Logout_StorageFailureReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, mockStorage := newTestSessionStore(t, ctrl)
	s.session = models.NewAuthenticatedSession("token-1", authOK.User.Identity())

	mockAdapter.EXPECT().Logout(gomock.Any()).Return(nil)
	mockStorage.EXPECT().Clear(gomock.Any()).Return(errors.New("read-only fs"))

	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.SessionAnonymous, s.Current().Status)
}

// ── Restore ─────────────────────────────────────────────────────────────────

func TestClientSessionStore_Restore(t *testing.T) {
	tests := []struct {
		name      string
		record    store.SessionRecord
		loadErr   error
		wantAuth  bool
		wantClear bool
	}{
		{
			name:     "valid record",
			record:   store.SessionRecord{Token: "token-1", User: `{"id":"u-1","email":"a@b.com"}`},
			wantAuth: true,
		},
		{
			name:    "nothing stored",
			loadErr: store.ErrLocalSessionNotFound,
		},
		{
			name:    "storage unreadable",
			loadErr: errors.New("permission denied"),
		},
		{
			name:      "token without identity",
			record:    store.SessionRecord{Token: "token-1"},
			wantClear: true,
		},
		{
			name:      "identity without token",
			record:    store.SessionRecord{User: `{"id":"u-1"}`},
			wantClear: true,
		},
		{
			name:      "identity is not json",
			record:    store.SessionRecord{Token: "token-1", User: `{"id":`},
			wantClear: true,
		},
		{
			name:      "identity without id",
			record:    store.SessionRecord{Token: "token-1", User: `{"email":"a@b.com"}`},
			wantClear: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// no adapter expectations: restore never contacts the server
			s, _, mockStorage := newTestSessionStore(t, ctrl)
			mockStorage.EXPECT().Load(gomock.Any()).Return(tt.record, tt.loadErr)
			if tt.wantClear {
				mockStorage.EXPECT().Clear(gomock.Any()).Return(nil)
			}

			session := s.Restore(context.Background())
			assert.Equal(t, tt.wantAuth, session.IsAuthenticated())
			assert.Equal(t, session, s.Current())
			if tt.wantAuth {
				assert.Equal(t, "token-1", session.Token)
				assert.Equal(t, "u-1", session.User.ID)
			}
		})
	}
}

func TestClientSessionStore_RestoreAcrossRestart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	path := filepath.Join(t.TempDir(), "session.json")
	storage, err := store.NewFileSessionStorage(path, logger.Nop())
	require.NoError(t, err)

	mockAdapter := mock.NewMockServerAdapter(ctrl)
	first := NewClientSessionStore(mockAdapter, storage, logger.Nop())
	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(authOK, nil)
	_, err = first.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)

	reopened, err := store.NewFileSessionStorage(path, logger.Nop())
	require.NoError(t, err)
	second := NewClientSessionStore(mockAdapter, reopened, logger.Nop())

	session := second.Restore(context.Background())
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, first.Current(), session)
}

// ── Invalidate / OnChange ───────────────────────────────────────────────────

func TestClientSessionStore_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _, mockStorage := newTestSessionStore(t, ctrl)
	s.session = models.NewAuthenticatedSession("current", authOK.User.Identity())

	// stale and empty tokens are ignored
	s.Invalidate("old")
	s.Invalidate("")
	assert.True(t, s.Current().IsAuthenticated())

	mockStorage.EXPECT().Clear(gomock.Any()).Return(nil)
	s.Invalidate("current")
	assert.False(t, s.Current().IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestClientSessionStore_OnChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockAdapter, mockStorage := newTestSessionStore(t, ctrl)

	var mu sync.Mutex
	var seen []models.SessionStatus
	s.OnChange(func(session models.Session) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, session.Status)
	})

	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).Return(authOK, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	mockAdapter.EXPECT().Logout(gomock.Any()).Return(nil)
	mockStorage.EXPECT().Clear(gomock.Any()).Return(nil)

	_, err := s.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, []models.SessionStatus{models.SessionAuthenticated, models.SessionAnonymous}, seen)
}
