// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/models"
)

var queryTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func Test_buildListTasksQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    models.TaskQuery
		contains []string
		absent   []string
		args     []any
	}{
		{
			name:     "all",
			query:    models.TaskQuery{UserID: "u1", Status: models.TaskStatusAll},
			contains: []string{"where (user_id = ?)", "order by created_at desc, id desc"},
			absent:   []string{"is_completed =", "limit", "offset"},
			args:     []any{"u1"},
		},
		{
			name:     "pending with page",
			query:    models.TaskQuery{UserID: "u1", Status: models.TaskStatusPending, Limit: 10, Offset: 20},
			contains: []string{"is_completed = ?", "limit 10", "offset 20"},
			args:     []any{"u1", 0},
		},
		{
			name:     "completed by priority",
			query:    models.TaskQuery{UserID: "u1", Status: models.TaskStatusCompleted, Priority: "high"},
			contains: []string{"is_completed = ?", "priority = ?"},
			args:     []any{"u1", 1, "high"},
		},
		{
			name:     "offset without limit",
			query:    models.TaskQuery{UserID: "u1", Offset: 5},
			contains: []string{"limit 9223372036854775807", "offset 5"},
			args:     []any{"u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListTasksQuery(tt.query)
			require.NoError(t, err)

			q := strings.ToLower(query)
			for _, s := range tt.contains {
				assert.Contains(t, q, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, q, s)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func Test_buildUpdateTaskQuery_OnlySetColumns(t *testing.T) {
	title := "new"
	done := true

	query, args, err := buildUpdateTaskQuery(7, models.TaskRecordPatch{Title: &title, IsCompleted: &done}, queryTime)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "update tasks set")
	assert.Contains(t, q, "title = ?")
	assert.Contains(t, q, "is_completed = ?")
	assert.Contains(t, q, "updated_at = ?")
	assert.NotContains(t, q, "description")
	assert.NotContains(t, q, "priority")
	assert.Contains(t, args, "2026-03-01T10:00:00.000000")
	assert.Equal(t, int64(7), args[len(args)-1])
}

func Test_buildInsertTaskQuery_NaiveTimestamps(t *testing.T) {
	query, args, err := buildInsertTaskQuery(models.TaskRecord{
		UserID: "u1", Title: "t", Priority: "low", CreatedAt: queryTime, UpdatedAt: queryTime,
	})
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(query), "insert into tasks (user_id,title,description,is_completed,priority,due_date,created_at,updated_at)")
	assert.Equal(t, 0, args[3])
	assert.Nil(t, args[5])
	assert.Equal(t, "2026-03-01T10:00:00.000000", args[6])
}

func Test_buildInsertMessageQuery_ToolCalls(t *testing.T) {
	_, args, err := buildInsertMessageQuery(models.MessageRecord{
		ID: "m1", ConversationID: "c1", Role: models.RoleAssistant, Content: "ok",
		ToolCalls: []models.ToolCall{{Name: "add_task"}}, Timestamp: queryTime, SequenceNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"add_task"}]`, args[4])

	_, args, err = buildInsertMessageQuery(models.MessageRecord{ID: "m2", Timestamp: queryTime})
	require.NoError(t, err)
	assert.Nil(t, args[4])
}
