// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServices(t *testing.T, ctrl *gomock.Controller) (*ClientServices, *mock.MockServerAdapter, *mock.MockSessionStorage) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockStorage := mock.NewMockSessionStorage(ctrl)

	mockAdapter.EXPECT().SetCredentialSource(gomock.Any()).Do(func(src any) {
		_, ok := src.(ClientSessionStore)
		assert.True(t, ok, "the session store must be the credential source")
	})

	services := NewClientServices(&store.ClientStorages{SessionStorage: mockStorage}, mockAdapter, logger.Nop())
	return services, mockAdapter, mockStorage
}

// The canonical end-to-end flow: sign in, create a task, see the server id.
func TestClientServices_LoginThenCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services, mockAdapter, mockStorage := newTestServices(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(gomock.Any(), models.LoginRequest{Email: "a@b.com", Password: "x"}).
		Return(models.AuthResponse{Token: "T", User: models.WireUser{ID: "u-1", Email: "a@b.com"}}, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	session, err := services.SessionStore.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, models.SessionAuthenticated, session.Status)
	assert.NotEmpty(t, session.Token)

	mockAdapter.EXPECT().CreateTask(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.CreateTaskRequest) (models.WireTask, error) {
			pending := services.TaskService.List()
			require.Len(t, pending, 1)
			assert.Equal(t, models.PendingCreate, pending[0].SyncState)
			assert.Equal(t, "Buy milk", pending[0].Title)

			var ack models.WireTask
			require.NoError(t, jsonUnmarshal(`{"id":"42","title":"Buy milk","is_completed":false,"priority":"low",`+
				`"created_at":"2026-03-01T10:00:00Z","updated_at":"2026-03-01T10:00:00Z"}`, &ack))
			return ack, nil
		},
	)

	task, err := services.TaskService.Create(ctx, models.TaskDraft{Title: "Buy milk", Priority: models.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, "42", task.ID)
	assert.Equal(t, models.Synced, task.SyncState)

	list := services.TaskService.List()
	require.Len(t, list, 1)
	assert.Equal(t, "42", list[0].ID)
	assert.Equal(t, models.Synced, list[0].SyncState)
	assert.Equal(t, models.PriorityLow, list[0].Priority)
}

func TestClientServices_InvalidationResetsCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services, mockAdapter, mockStorage := newTestServices(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.AuthResponse{Token: "T", User: models.WireUser{ID: "u-1", Email: "a@b.com"}}, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	_, err := services.SessionStore.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)

	mockAdapter.EXPECT().ListTasks(gomock.Any(), gomock.Any()).
		Return(models.TaskList{Tasks: []models.WireTask{wireTask("1", "a", false)}, Total: 1}, nil)
	require.NoError(t, services.TaskService.Refresh(ctx, models.TaskStatusAll))

	mockAdapter.EXPECT().Chat(gomock.Any(), "u-1", gomock.Any()).
		Return(models.ChatResponse{ConversationID: "c1", Response: "hi"}, nil)
	_, err = services.ChatService.Send(ctx, "hello")
	require.NoError(t, err)

	mockStorage.EXPECT().Clear(gomock.Any()).Return(nil)
	services.SessionStore.Invalidate("T")

	assert.Empty(t, services.TaskService.List())
	assert.Empty(t, services.ChatService.Conversation().Messages)
	assert.Empty(t, services.ChatService.Conversation().ID)
}

func TestClientServices_ChatToolCallRefreshesTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services, mockAdapter, mockStorage := newTestServices(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.AuthResponse{Token: "T", User: models.WireUser{ID: "u-1", Email: "a@b.com"}}, nil)
	mockStorage.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	_, err := services.SessionStore.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)

	gomock.InOrder(
		mockAdapter.EXPECT().Chat(gomock.Any(), "u-1", gomock.Any()).Return(models.ChatResponse{
			ConversationID: "c1",
			Response:       "Added",
			ToolCalls:      []models.ToolCall{{Name: "add_task"}},
		}, nil),
		mockAdapter.EXPECT().ListTasks(gomock.Any(), gomock.Any()).
			Return(models.TaskList{Tasks: []models.WireTask{wireTask("5", "Buy milk", false)}, Total: 1}, nil),
	)

	_, err = services.ChatService.Send(ctx, "add a task Buy milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(services.TaskService.List()))
}
