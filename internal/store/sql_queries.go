// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	usersTable         = "users"
	tasksTable         = "tasks"
	conversationsTable = "conversations"
	messagesTable      = "messages"
)

var (
	userColumns         = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}
	taskColumns         = []string{"id", "user_id", "title", "description", "is_completed", "priority", "due_date", "created_at", "updated_at"}
	conversationColumns = []string{"id", "user_id", "title", "is_active", "created_at", "updated_at"}
	messageColumns      = []string{"id", "conversation_id", "role", "content", "tool_calls", "timestamp", "sequence_number"}
)

func toSQL(b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// ── users ───────────────────────────────────────────────────────────────────

func buildInsertUserQuery(account models.Account) (string, []any, error) {
	return toSQL(sqlite.
		Insert(usersTable).
		Columns(userColumns...).
		Values(account.ID, account.Email, account.Name, account.PasswordHash,
			models.FormatNaive(account.CreatedAt), models.FormatNaive(account.UpdatedAt)))
}

func buildFindUserByEmailQuery(email string) (string, []any, error) {
	return toSQL(sqlite.
		Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"email": email}))
}

// ── tasks ───────────────────────────────────────────────────────────────────

func buildInsertTaskQuery(task models.TaskRecord) (string, []any, error) {
	return toSQL(sqlite.
		Insert(tasksTable).
		Columns(taskColumns[1:]...).
		Values(task.UserID, task.Title, task.Description, boolToInt(task.IsCompleted), task.Priority,
			naivePtr(task.DueDate), models.FormatNaive(task.CreatedAt), models.FormatNaive(task.UpdatedAt)))
}

func buildGetTaskQuery(id int64) (string, []any, error) {
	return toSQL(sqlite.
		Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"id": id}))
}

func taskQueryFilter(query models.TaskQuery) sq.And {
	where := sq.And{sq.Eq{"user_id": query.UserID}}
	switch query.Status {
	case models.TaskStatusPending:
		where = append(where, sq.Eq{"is_completed": 0})
	case models.TaskStatusCompleted:
		where = append(where, sq.Eq{"is_completed": 1})
	}
	if query.Priority != "" {
		where = append(where, sq.Eq{"priority": query.Priority})
	}
	return where
}

func buildListTasksQuery(query models.TaskQuery) (string, []any, error) {
	b := sqlite.
		Select(taskColumns...).
		From(tasksTable).
		Where(taskQueryFilter(query)).
		OrderBy("created_at DESC", "id DESC")
	if query.Limit > 0 {
		b = b.Limit(uint64(query.Limit))
	}
	if query.Offset > 0 {
		if query.Limit <= 0 {
			// SQLite only accepts OFFSET after LIMIT
			b = b.Limit(uint64(1<<63 - 1))
		}
		b = b.Offset(uint64(query.Offset))
	}
	return toSQL(b)
}

func buildCountTasksQuery(query models.TaskQuery) (string, []any, error) {
	return toSQL(sqlite.
		Select("COUNT(*)").
		From(tasksTable).
		Where(taskQueryFilter(query)))
}

func buildUpdateTaskQuery(id int64, patch models.TaskRecordPatch, updatedAt time.Time) (string, []any, error) {
	set := map[string]any{"updated_at": models.FormatNaive(updatedAt)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.IsCompleted != nil {
		set["is_completed"] = boolToInt(*patch.IsCompleted)
	}
	if patch.DueDate != nil {
		set["due_date"] = models.FormatNaive(*patch.DueDate)
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}

	return toSQL(sqlite.
		Update(tasksTable).
		SetMap(set).
		Where(sq.Eq{"id": id}))
}

func buildDeleteTaskQuery(id int64) (string, []any, error) {
	return toSQL(sqlite.
		Delete(tasksTable).
		Where(sq.Eq{"id": id}))
}

// ── conversations ───────────────────────────────────────────────────────────

func buildInsertConversationQuery(c models.ConversationRecord) (string, []any, error) {
	return toSQL(sqlite.
		Insert(conversationsTable).
		Columns(conversationColumns...).
		Values(c.ID, c.UserID, c.Title, boolToInt(c.IsActive),
			models.FormatNaive(c.CreatedAt), models.FormatNaive(c.UpdatedAt)))
}

func buildGetConversationQuery(id string) (string, []any, error) {
	return toSQL(sqlite.
		Select(conversationColumns...).
		From(conversationsTable).
		Where(sq.Eq{"id": id}))
}

func buildListConversationsQuery(userID string) (string, []any, error) {
	return toSQL(sqlite.
		Select(conversationColumns...).
		From(conversationsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC"))
}

func buildTouchConversationQuery(id string, at time.Time) (string, []any, error) {
	return toSQL(sqlite.
		Update(conversationsTable).
		Set("updated_at", models.FormatNaive(at)).
		Where(sq.Eq{"id": id}))
}

func buildLastSequenceQuery(conversationID string) (string, []any, error) {
	return toSQL(sqlite.
		Select("COALESCE(MAX(sequence_number), 0)").
		From(messagesTable).
		Where(sq.Eq{"conversation_id": conversationID}))
}

func buildInsertMessageQuery(m models.MessageRecord) (string, []any, error) {
	var toolCalls any
	if len(m.ToolCalls) > 0 {
		raw, err := json.Marshal(m.ToolCalls)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		toolCalls = string(raw)
	}

	return toSQL(sqlite.
		Insert(messagesTable).
		Columns(messageColumns...).
		Values(m.ID, m.ConversationID, string(m.Role), m.Content, toolCalls,
			models.FormatNaive(m.Timestamp), m.SequenceNumber))
}

func buildListMessagesQuery(conversationID string) (string, []any, error) {
	return toSQL(sqlite.
		Select(messageColumns...).
		From(messagesTable).
		Where(sq.Eq{"conversation_id": conversationID}).
		OrderBy("sequence_number ASC"))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func naivePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return models.FormatNaive(*t)
}
