// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type ClientServices struct {
	SessionStore ClientSessionStore
	TaskService  ClientTaskService
	ChatService  ClientChatService
	RefreshJob   ClientRefreshJob
}

// NewClientServices wires the client core. The session store becomes the
// adapter's credential source, and the task cache and conversation are
// dropped whenever the session ends.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, log *logger.Logger) *ClientServices {
	sessionStore := NewClientSessionStore(serverAdapter, storages.SessionStorage, log)
	serverAdapter.SetCredentialSource(sessionStore)

	taskSvc := NewClientTaskService(serverAdapter, sessionStore, log)
	chatSvc := NewClientChatService(serverAdapter, sessionStore,
		TaskChangeFunc(func(ctx context.Context) { refreshIfIdle(ctx, taskSvc, log) }),
		log,
	)

	sessionStore.OnChange(func(session models.Session) {
		if !session.IsAuthenticated() {
			taskSvc.Reset()
			chatSvc.Reset()
		}
	})

	return &ClientServices{
		SessionStore: sessionStore,
		TaskService:  taskSvc,
		ChatService:  chatSvc,
		RefreshJob:   NewClientRefreshJob(taskSvc, sessionStore, log),
	}
}
