// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

func TestChat_Success(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()

	req := models.ChatRequest{Message: "add task buy milk"}
	m.assistant.EXPECT().Chat(gomock.Any(), testUserID, req).Return(models.ChatResponse{
		ConversationID: "conv-1",
		Response:       "I've added 'buy milk' to your tasks.",
		ToolCalls:      []models.ToolCall{{Name: "add_task", Parameters: map[string]any{"title": "buy milk"}}},
	}, nil)

	rec := doRequest(t, router, http.MethodPost, "/"+testUserID+"/chat", req, true)

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelopeData(t, rec)
	assert.Equal(t, "conv-1", data["conversation_id"])
	calls := data["tool_calls"].([]any)
	require.Len(t, calls, 1)
	assert.Equal(t, "add_task", calls[0].(map[string]any)["name"])
}

func TestChat_OtherUser(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()

	rec := doRequest(t, router, http.MethodPost, "/someone-else/chat", models.ChatRequest{Message: "hi"}, true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only access your own chat conversations", decodeBody(t, rec)["detail"])
}

func TestChat_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "unknown conversation",
			err:         fmt.Errorf("getting conversation: %w", store.ErrConversationNotFound),
			wantCode:    app.CodeChatFailed,
			wantMessage: app.MsgConversationNotFound,
		},
		{
			name:        "foreign conversation",
			err:         service.ErrConversationForbidden,
			wantCode:    app.CodeChatFailed,
			wantMessage: app.MsgConversationDenied,
		},
		{
			name:        "empty message",
			err:         fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrEmptyMessage),
			wantCode:    app.CodeChatFailed,
			wantMessage: fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrEmptyMessage).Error(),
		},
		{
			name:        "unexpected",
			err:         assert.AnError,
			wantCode:    app.CodeNetwork,
			wantMessage: "An unexpected error occurred: " + assert.AnError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectToken()
			m.assistant.EXPECT().Chat(gomock.Any(), testUserID, gomock.Any()).Return(models.ChatResponse{}, tt.err)

			rec := doRequest(t, router, http.MethodPost, "/"+testUserID+"/chat", models.ChatRequest{Message: "hi"}, true)

			require.Equal(t, http.StatusOK, rec.Code)
			apiErr := envelopeError(t, rec)
			assert.Equal(t, tt.wantCode, apiErr["code"])
			assert.Equal(t, tt.wantMessage, apiErr["message"])
		})
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()

	rec := doRequest(t, router, http.MethodPost, "/"+testUserID+"/chat", "[", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.CodeInvalidRequest, envelopeError(t, rec)["code"])
}

func TestListConversations(t *testing.T) {
	t.Run("own conversations", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		title := "Chat with user-123..."
		m.assistant.EXPECT().ListConversations(gomock.Any(), testUserID).Return([]models.ConversationRecord{
			{ID: "conv-1", UserID: testUserID, Title: &title, IsActive: true, CreatedAt: createdAt, UpdatedAt: createdAt},
		}, nil)

		rec := doRequest(t, router, http.MethodGet, "/conversations/"+testUserID, nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		data := envelopeData(t, rec)
		assert.Equal(t, float64(1), data["total"])
		conv := data["conversations"].([]any)[0].(map[string]any)
		assert.Equal(t, title, conv["title"])
		assert.Equal(t, "2026-03-01T10:00:00.000000", conv["updated_at"])
	})

	t.Run("other user", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		rec := doRequest(t, router, http.MethodGet, "/conversations/other", nil, true)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()
		m.assistant.EXPECT().ListConversations(gomock.Any(), testUserID).Return(nil, assert.AnError)

		rec := doRequest(t, router, http.MethodGet, "/conversations/"+testUserID, nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, app.CodeConversationsFailed, envelopeError(t, rec)["code"])
	})
}

func TestListMessages(t *testing.T) {
	t.Run("messages in order with wrapped tool calls", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		m.assistant.EXPECT().ListMessages(gomock.Any(), testUserID, "conv-1").Return([]models.MessageRecord{
			{ID: "m1", ConversationID: "conv-1", Role: models.RoleUser, Content: "add task x", Timestamp: createdAt, SequenceNumber: 1},
			{
				ID: "m2", ConversationID: "conv-1", Role: models.RoleAssistant, Content: "done",
				ToolCalls: []models.ToolCall{{Name: "add_task"}}, Timestamp: createdAt, SequenceNumber: 2,
			},
		}, nil)

		rec := doRequest(t, router, http.MethodGet, "/conversations/conv-1/messages", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		data := envelopeData(t, rec)
		assert.Equal(t, "conv-1", data["conversation_id"])
		messages := data["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Nil(t, messages[0].(map[string]any)["tool_calls"])
		wrapped := messages[1].(map[string]any)["tool_calls"].(map[string]any)
		assert.Len(t, wrapped["tool_calls"], 1)
	})

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"unknown conversation", store.ErrConversationNotFound, app.CodeConversationNotFound},
		{"foreign conversation", service.ErrConversationForbidden, app.CodeConversationDenied},
		{"storage failure", assert.AnError, app.CodeMessagesFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectToken()
			m.assistant.EXPECT().ListMessages(gomock.Any(), testUserID, "conv-1").Return(nil, tt.err)

			rec := doRequest(t, router, http.MethodGet, "/conversations/conv-1/messages", nil, true)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCode, envelopeError(t, rec)["code"])
		})
	}
}
