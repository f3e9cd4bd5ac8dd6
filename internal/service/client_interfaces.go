// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientSessionStore owns the authenticated-session lifecycle. It is the only
// writer of session state; every other component reads the session through
// this contract. It also serves as the gateway's credential source.
type ClientSessionStore interface {
	// Login authenticates against the server. On success the session becomes
	// Authenticated and is persisted. On failure the session stays Anonymous
	// and the remote error is returned.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// Register creates an account and signs in with the issued credential.
	Register(ctx context.Context, email, password, name string) (models.Session, error)

	// Logout notifies the server on a best-effort basis and then clears the
	// session unconditionally. Only a local storage failure is returned.
	Logout(ctx context.Context) error

	// Restore loads the persisted session without contacting the server.
	// Missing or corrupt data yields an Anonymous session.
	Restore(ctx context.Context) models.Session

	// Current returns a snapshot of the live session.
	Current() models.Session

	// Token returns the live credential, or "" when Anonymous.
	Token() string

	// Invalidate drops the session if token is still the current credential.
	Invalidate(token string)

	// OnChange registers fn to be called after every session transition.
	OnChange(fn func(models.Session))
}

// ClientTaskService owns the local task collection and keeps it consistent
// with the server under optimistic mutation.
//
// Mutations return a *MutationError when the server rejects them or the
// request fails; the local collection has been rolled back by then.
type ClientTaskService interface {
	Create(ctx context.Context, draft models.TaskDraft) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	ToggleCompletion(ctx context.Context, id string) (models.Task, error)
	Remove(ctx context.Context, id string) error

	// Get fetches a single task and reconciles the cached entry.
	Get(ctx context.Context, id string) (models.Task, error)

	// List returns the visible tasks in display order. It never blocks on the
	// network.
	List() []models.Task

	// Refresh replaces the whole cache with the server listing for filter.
	// Local pending state is discarded.
	Refresh(ctx context.Context, filter models.TaskStatusFilter) error

	// Filter returns the status filter of the last refresh.
	Filter() models.TaskStatusFilter

	// HasPending reports whether any mutation is in flight.
	HasPending() bool

	// Reset empties the cache. Used when the session ends.
	Reset()

	// OnChange registers fn to be called after every change of the
	// collection.
	OnChange(fn func())
}

// ClientChatService owns the active conversation with the assistant.
type ClientChatService interface {
	// Send appends message to the conversation and dispatches it. The
	// returned message is the assistant turn that was appended, which is a
	// locally synthesized error turn when err is non-nil.
	Send(ctx context.Context, message string) (models.Message, error)

	// Conversation returns a copy of the current state.
	Conversation() models.Conversation

	// Reset starts a fresh conversation.
	Reset()

	// Resume loads the history of a past conversation and continues it.
	Resume(ctx context.Context, conversationID string) error

	// Conversations lists the past conversations of the signed-in user.
	Conversations(ctx context.Context) ([]models.ConversationSummary, error)
}

// TaskChangeListener is notified when an assistant reply reports a task
// mutation performed on the server.
type TaskChangeListener interface {
	TasksChanged(ctx context.Context)
}

// ClientRefreshJob periodically refreshes the task cache in the background.
type ClientRefreshJob interface {
	// Start launches the refresh goroutine. A non-positive interval disables
	// the job. Any previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the goroutine and waits for it to exit.
	Stop()
}
