// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type clientSessionStore struct {
	adapter adapter.ServerAdapter
	storage store.SessionStorage

	// mu is held across storage writes so the persisted order of
	// transitions matches the in-memory order.
	mu        sync.RWMutex
	session   models.Session
	listeners []func(models.Session)

	logger *logger.Logger
}

// NewClientSessionStore returns an Anonymous [ClientSessionStore]. Call
// Restore to load a persisted session.
func NewClientSessionStore(serverAdapter adapter.ServerAdapter, storage store.SessionStorage, log *logger.Logger) ClientSessionStore {
	return &clientSessionStore{
		adapter: serverAdapter,
		storage: storage,
		session: models.AnonymousSession(),
		logger:  log,
	}
}

func (s *clientSessionStore) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.Current(), fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	resp, err := s.adapter.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSessionStore.Login").Msg("login rejected")
		return s.Current(), err
	}
	return s.authenticate(ctx, resp)
}

func (s *clientSessionStore) Register(ctx context.Context, email, password, name string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.Current(), fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	resp, err := s.adapter.Register(ctx, models.RegisterRequest{Email: email, Password: password, Name: strings.TrimSpace(name)})
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSessionStore.Register").Msg("registration rejected")
		return s.Current(), err
	}
	return s.authenticate(ctx, resp)
}

func (s *clientSessionStore) authenticate(ctx context.Context, resp models.AuthResponse) (models.Session, error) {
	identity := resp.User.Identity()
	if resp.Token == "" || identity.ID == "" {
		return s.Current(), &models.APIError{
			Code:    app.CodeNetwork,
			Message: app.MsgUnexpectedResponse,
			Kind:    adapter.ErrRemote,
		}
	}

	next := models.NewAuthenticatedSession(resp.Token, identity)
	userJSON, err := json.Marshal(identity)
	if err != nil {
		return s.Current(), fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	s.session = next
	// the session is live even if it could not be persisted
	if err = s.storage.Save(ctx, store.SessionRecord{Token: next.Token, User: string(userJSON)}); err != nil {
		s.logger.Error().Err(err).Str("func", "clientSessionStore.authenticate").Msg("session not persisted")
	}
	s.mu.Unlock()
	s.notify(next)

	s.logger.Info().Str("func", "clientSessionStore.authenticate").Str("user_id", identity.ID).Msg("session authenticated")
	return next, nil
}

// Logout always ends Anonymous, whatever the server answers.
func (s *clientSessionStore) Logout(ctx context.Context) error {
	if s.Token() != "" {
		if err := s.adapter.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Str("func", "clientSessionStore.Logout").Msg("remote logout failed, clearing local session anyway")
		}
	}

	s.mu.Lock()
	s.session = models.AnonymousSession()
	err := s.storage.Clear(ctx)
	s.mu.Unlock()
	s.notify(models.AnonymousSession())

	if err != nil {
		s.logger.Error().Err(err).Str("func", "clientSessionStore.Logout").Msg("clearing persisted session failed")
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info().Str("func", "clientSessionStore.Logout").Msg("session cleared")
	return nil
}

func (s *clientSessionStore) Restore(ctx context.Context) models.Session {
	log := s.logger.With().Str("func", "clientSessionStore.Restore").Logger()

	record, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrLocalSessionNotFound) {
			log.Warn().Err(err).Msg("persisted session unreadable")
		}
		return s.reset(ctx, false)
	}

	session, ok := decodeRecord(record)
	if !ok {
		log.Warn().Msg("persisted session is corrupt, clearing it")
		return s.reset(ctx, true)
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.notify(session)

	log.Debug().Str("user_id", session.User.ID).Msg("session restored")
	return session
}

// decodeRecord accepts only complete records.
func decodeRecord(record store.SessionRecord) (models.Session, bool) {
	if record.Token == "" || record.User == "" {
		return models.Session{}, false
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(record.User), &identity); err != nil || identity.ID == "" {
		return models.Session{}, false
	}
	return models.NewAuthenticatedSession(record.Token, identity), true
}

func (s *clientSessionStore) reset(ctx context.Context, clear bool) models.Session {
	anon := models.AnonymousSession()

	s.mu.Lock()
	s.session = anon
	if clear {
		if err := s.storage.Clear(ctx); err != nil {
			s.logger.Error().Err(err).Str("func", "clientSessionStore.reset").Msg("clearing corrupt session failed")
		}
	}
	s.mu.Unlock()
	s.notify(anon)
	return anon
}

func (s *clientSessionStore) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *clientSessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Invalidate ends the session when the server rejected token. Tokens that
// are no longer current are ignored, so a late rejection cannot sign out a
// newer session.
func (s *clientSessionStore) Invalidate(token string) {
	s.mu.Lock()
	if token == "" || s.session.Token != token {
		s.mu.Unlock()
		return
	}
	s.session = models.AnonymousSession()
	err := s.storage.Clear(context.Background())
	s.mu.Unlock()
	s.notify(models.AnonymousSession())

	if err != nil {
		s.logger.Error().Err(err).Str("func", "clientSessionStore.Invalidate").Msg("clearing invalidated session failed")
	}
	s.logger.Info().Str("func", "clientSessionStore.Invalidate").Msg("credential rejected, session ended")
}

func (s *clientSessionStore) OnChange(fn func(models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *clientSessionStore) notify(session models.Session) {
	s.mu.RLock()
	listeners := append([]func(models.Session){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(session)
	}
}
