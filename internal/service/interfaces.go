// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=TaskServiceWrapper

// AuthService registers development server accounts and issues bearer tokens.
type AuthService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (models.Account, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Account, error)
	CreateToken(ctx context.Context, account models.Account) (string, error)
	// ParseToken returns the user id carried by a valid token.
	ParseToken(ctx context.Context, token string) (string, error)
}

// TaskService manages the tasks of the authenticated user. Every method
// checks that the addressed task belongs to userID.
type TaskService interface {
	CreateTask(ctx context.Context, userID string, req models.CreateTaskRequest) (models.TaskRecord, error)
	GetTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error)
	ListTasks(ctx context.Context, query models.TaskQuery) ([]models.TaskRecord, int, error)
	UpdateTask(ctx context.Context, userID string, id int64, req models.UpdateTaskRequest) (models.TaskRecord, error)
	ToggleTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error)
	DeleteTask(ctx context.Context, userID string, id int64) error
}

// TaskServiceWrapper defines middleware composition for TaskService.
// Implementations wrap an existing TaskService to add behavior such as
// validating.
type TaskServiceWrapper interface {
	Wrap(TaskService) TaskService
}

// AssistantService answers chat messages and keeps the conversation history.
type AssistantService interface {
	Chat(ctx context.Context, userID string, req models.ChatRequest) (models.ChatResponse, error)
	ListConversations(ctx context.Context, userID string) ([]models.ConversationRecord, error)
	ListMessages(ctx context.Context, userID, conversationID string) ([]models.MessageRecord, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
