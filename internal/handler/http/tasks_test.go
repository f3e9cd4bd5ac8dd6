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

func testTask(id int64, completed bool) models.TaskRecord {
	desc := "milk and eggs"
	due := createdAt.AddDate(0, 0, 2)
	return models.TaskRecord{
		ID:          id,
		UserID:      testUserID,
		Title:       "Buy groceries",
		Description: &desc,
		IsCompleted: completed,
		Priority:    "high",
		DueDate:     &due,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestCreateTask(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()

	req := models.CreateTaskRequest{Title: "Buy groceries", Priority: "high"}
	m.tasks.EXPECT().CreateTask(gomock.Any(), testUserID, req).Return(testTask(7, false), nil)

	rec := doRequest(t, router, http.MethodPost, "/tasks", req, true)

	require.Equal(t, http.StatusOK, rec.Code)
	task := envelopeData(t, rec)["task"].(map[string]any)
	assert.Equal(t, float64(7), task["id"])
	assert.Equal(t, float64(0), task["is_completed"])
	assert.Equal(t, "2026-03-01T10:00:00.000000", task["created_at"])
	assert.Equal(t, "2026-03-03T10:00:00.000000", task["due_date"])
	assert.Equal(t, "milk and eggs", task["description"])
}

func TestCreateTask_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "empty title",
			err:         fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrEmptyTitle),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    app.CodeTaskInvalid,
			wantMessage: "Missing required fields",
		},
		{
			name:        "bad priority",
			err:         fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrInvalidPriority),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    app.CodeTaskInvalid,
			wantMessage: fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrInvalidPriority).Error(),
		},
		{
			name:        "storage failure",
			err:         fmt.Errorf("%w: %w", store.ErrExecutingQuery, assert.AnError),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    app.CodeStorage,
			wantMessage: app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectToken()
			m.tasks.EXPECT().CreateTask(gomock.Any(), testUserID, gomock.Any()).Return(models.TaskRecord{}, tt.err)

			rec := doRequest(t, router, http.MethodPost, "/tasks", models.CreateTaskRequest{}, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			apiErr := detailError(t, rec)
			assert.Equal(t, tt.wantCode, apiErr["code"])
			assert.Equal(t, tt.wantMessage, apiErr["message"])
		})
	}
}

func TestListTasks(t *testing.T) {
	t.Run("filters from either parameter name", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		m.tasks.EXPECT().ListTasks(gomock.Any(), models.TaskQuery{
			UserID:   testUserID,
			Status:   models.TaskStatusCompleted,
			Priority: "low",
			Limit:    10,
			Offset:   20,
		}).Return([]models.TaskRecord{testTask(1, true), testTask(2, true)}, 42, nil)

		rec := doRequest(t, router, http.MethodGet, "/tasks?status=completed&priority_filter=low&limit=10&offset=20", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		data := envelopeData(t, rec)
		assert.Equal(t, float64(42), data["total"])
		assert.Equal(t, float64(10), data["limit"])
		tasks := data["tasks"].([]any)
		require.Len(t, tasks, 2)
		assert.Equal(t, float64(1), tasks[0].(map[string]any)["is_completed"])
	})

	t.Run("status_filter wins over status", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		m.tasks.EXPECT().ListTasks(gomock.Any(), models.TaskQuery{
			UserID: testUserID,
			Status: models.TaskStatusPending,
		}).Return(nil, 0, nil)

		rec := doRequest(t, router, http.MethodGet, "/tasks?status_filter=pending&status=completed", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, envelopeData(t, rec)["tasks"])
	})

	t.Run("bad limit", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()

		rec := doRequest(t, router, http.MethodGet, "/tasks?limit=ten", nil, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, app.CodeInvalidRequest, detailError(t, rec)["code"])
	})
}

func TestGetTask(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(m testServices)
		wantStatus int
		wantCode   string
	}{
		{
			name: "found",
			path: "/tasks/3",
			setup: func(m testServices) {
				m.tasks.EXPECT().GetTask(gomock.Any(), testUserID, int64(3)).Return(testTask(3, false), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/tasks/3",
			setup: func(m testServices) {
				m.tasks.EXPECT().GetTask(gomock.Any(), testUserID, int64(3)).
					Return(models.TaskRecord{}, fmt.Errorf("getting task: %w", store.ErrTaskNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   app.CodeTaskNotFound,
		},
		{
			name: "someone else's task",
			path: "/tasks/3",
			setup: func(m testServices) {
				m.tasks.EXPECT().GetTask(gomock.Any(), testUserID, int64(3)).Return(models.TaskRecord{}, service.ErrTaskForbidden)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   app.CodeTaskForbidden,
		},
		{
			name:       "non numeric id",
			path:       "/tasks/abc",
			setup:      func(testServices) {},
			wantStatus: http.StatusNotFound,
			wantCode:   app.CodeTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectToken()
			tt.setup(m)

			rec := doRequest(t, router, http.MethodGet, tt.path, nil, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, detailError(t, rec)["code"])
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()

	title := "Buy more groceries"
	updated := testTask(5, false)
	updated.Title = title
	m.tasks.EXPECT().UpdateTask(gomock.Any(), testUserID, int64(5), models.UpdateTaskRequest{Title: &title}).Return(updated, nil)

	rec := doRequest(t, router, http.MethodPut, "/tasks/5", models.UpdateTaskRequest{Title: &title}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, title, envelopeData(t, rec)["task"].(map[string]any)["title"])
}

func TestToggleTask(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectToken()
	m.tasks.EXPECT().ToggleTask(gomock.Any(), testUserID, int64(5)).Return(testTask(5, true), nil)

	rec := doRequest(t, router, http.MethodPatch, "/tasks/5/toggle-status", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Task status updated successfully", body["message"])
	assert.Equal(t, float64(1), envelopeData(t, rec)["task"].(map[string]any)["is_completed"])
}

func TestDeleteTask(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()
		m.tasks.EXPECT().DeleteTask(gomock.Any(), testUserID, int64(9)).Return(nil)

		rec := doRequest(t, router, http.MethodDelete, "/tasks/9", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Task deleted successfully", decodeBody(t, rec)["message"])
	})

	t.Run("forbidden", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectToken()
		m.tasks.EXPECT().DeleteTask(gomock.Any(), testUserID, int64(9)).Return(service.ErrTaskForbidden)

		rec := doRequest(t, router, http.MethodDelete, "/tasks/9", nil, true)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, app.MsgTaskForbidden, detailError(t, rec)["message"])
	})
}
