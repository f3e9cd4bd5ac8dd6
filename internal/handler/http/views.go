// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"

	"github.com/MKhiriev/go-task-keeper/models"
)

// taskView is the task object as the remote store emits it: a numeric id,
// is_completed as 0/1 and zone-less timestamps.
type taskView struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted int     `json:"is_completed"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func newTaskView(t models.TaskRecord) taskView {
	v := taskView{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		CreatedAt:   models.FormatNaive(t.CreatedAt),
		UpdatedAt:   models.FormatNaive(t.UpdatedAt),
	}
	if t.IsCompleted {
		v.IsCompleted = 1
	}
	if t.DueDate != nil {
		due := models.FormatNaive(*t.DueDate)
		v.DueDate = &due
	}
	return v
}

type taskPayload struct {
	Task taskView `json:"task"`
}

type taskListPayload struct {
	Tasks  []taskView `json:"tasks"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

type conversationView struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Title     *string `json:"title"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func newConversationView(c models.ConversationRecord) conversationView {
	return conversationView{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		IsActive:  c.IsActive,
		CreatedAt: models.FormatNaive(c.CreatedAt),
		UpdatedAt: models.FormatNaive(c.UpdatedAt),
	}
}

type conversationListPayload struct {
	Conversations []conversationView `json:"conversations"`
	Total         int                `json:"total"`
}

// messageView keeps tool calls wrapped in an object, the way the history
// store records them.
type messageView struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Role           models.Role     `json:"role"`
	Content        string          `json:"content"`
	ToolCalls      json.RawMessage `json:"tool_calls"`
	Timestamp      string          `json:"timestamp"`
	SequenceNumber int             `json:"sequence_number"`
}

func newMessageView(m models.MessageRecord) messageView {
	v := messageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		ToolCalls:      json.RawMessage("null"),
		Timestamp:      models.FormatNaive(m.Timestamp),
		SequenceNumber: m.SequenceNumber,
	}
	if len(m.ToolCalls) > 0 {
		if raw, err := json.Marshal(struct {
			ToolCalls []models.ToolCall `json:"tool_calls"`
		}{m.ToolCalls}); err == nil {
			v.ToolCalls = raw
		}
	}
	return v
}

type messageListPayload struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []messageView `json:"messages"`
	Total          int           `json:"total"`
}
