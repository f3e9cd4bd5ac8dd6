// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client's transport layer towards the remote task
// service.
//
// [Gateway] is the single chokepoint for outbound requests: it attaches the
// session credential, never retries, and turns every outcome (including
// timeouts and malformed bodies) into a [models.Envelope]. [ServerAdapter]
// adds typed endpoint methods on top of it and returns remote failures as
// *models.APIError values that match the sentinel errors of this package
// with [errors.Is].
package adapter

import (
	"context"
	"net/url"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// CredentialSource supplies the current bearer credential and is told when
// the server rejects it. The session store implements it.
type CredentialSource interface {
	// Token returns the current credential, or "" when anonymous.
	Token() string

	// Invalidate reports that token was rejected or has expired. The
	// implementation must ignore stale tokens that are no longer current.
	Invalidate(token string)
}

// Gateway performs one HTTP exchange per call and never returns a Go error:
// every failure is encoded in the envelope.
type Gateway interface {
	Send(ctx context.Context, method, path string, query url.Values, body any) models.Envelope

	// SetCredentialSource wires the credential provider. It is called once
	// during start-up because the session store itself depends on the
	// adapter.
	SetCredentialSource(src CredentialSource)
}

// ServerAdapter exposes the remote endpoints as typed calls.
type ServerAdapter interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Logout(ctx context.Context) error

	ListTasks(ctx context.Context, req models.ListTasksRequest) (models.TaskList, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.WireTask, error)
	GetTask(ctx context.Context, id string) (models.WireTask, error)
	UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.WireTask, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string) (models.WireTask, error)

	Chat(ctx context.Context, userID string, req models.ChatRequest) (models.ChatResponse, error)
	ListConversations(ctx context.Context, userID string) (models.ConversationList, error)
	ConversationMessages(ctx context.Context, conversationID string) (models.MessageList, error)

	// CredentialSource wiring is forwarded to the underlying Gateway.
	SetCredentialSource(src CredentialSource)
}
