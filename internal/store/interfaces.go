// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository stores development server accounts.
type UserRepository interface {
	// CreateUser returns [ErrEmailAlreadyExists] when the email is taken.
	CreateUser(ctx context.Context, account models.Account) (models.Account, error)
	// FindUserByEmail returns [ErrNoUserWasFound] for an unknown email.
	FindUserByEmail(ctx context.Context, email string) (models.Account, error)
}

// TaskRepository stores development server tasks. Ownership is checked by
// the service layer, so lookups are by id only.
type TaskRepository interface {
	CreateTask(ctx context.Context, task models.TaskRecord) (models.TaskRecord, error)
	// GetTask returns [ErrTaskNotFound] for an unknown id.
	GetTask(ctx context.Context, id int64) (models.TaskRecord, error)
	// ListTasks returns one page of the query and the total match count.
	ListTasks(ctx context.Context, query models.TaskQuery) ([]models.TaskRecord, int, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskRecordPatch, updatedAt time.Time) error
	DeleteTask(ctx context.Context, id int64) error
}

// ConversationRepository stores assistant conversations and their messages.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation models.ConversationRecord) error
	// GetConversation returns [ErrConversationNotFound] for an unknown id.
	GetConversation(ctx context.Context, id string) (models.ConversationRecord, error)
	ListConversations(ctx context.Context, userID string) ([]models.ConversationRecord, error)
	// AppendMessages stores messages after the last one of the conversation,
	// assigning sequence numbers, and bumps the conversation's updated_at.
	AppendMessages(ctx context.Context, conversationID string, messages ...models.MessageRecord) ([]models.MessageRecord, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.MessageRecord, error)
}
