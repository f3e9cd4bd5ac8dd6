// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeDetailError(w, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	task, err := h.services.TaskService.CreateTask(r.Context(), userIDFrom(r), req)
	if err != nil {
		log.Err(err).Msg("task creation failed")
		writeDetailError(w, err)
		return
	}

	utils.WriteSuccess(w, taskPayload{Task: newTaskView(task)}, "Task created successfully", http.StatusOK)
}

// listTasks accepts the completion filter as "status" or "status_filter"
// and the priority as "priority" or "priority_filter".
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	q := r.URL.Query()

	query := models.TaskQuery{
		UserID:   userIDFrom(r),
		Status:   models.TaskStatusFilter(firstOf(q.Get("status_filter"), q.Get("status"))),
		Priority: firstOf(q.Get("priority_filter"), q.Get("priority")),
	}

	var err error
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		writeDetailError(w, err)
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		writeDetailError(w, err)
		return
	}

	tasks, total, err := h.services.TaskService.ListTasks(r.Context(), query)
	if err != nil {
		log.Err(err).Msg("task listing failed")
		writeDetailError(w, err)
		return
	}

	payload := taskListPayload{
		Tasks:  make([]taskView, 0, len(tasks)),
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	for _, t := range tasks {
		payload.Tasks = append(payload.Tasks, newTaskView(t))
	}
	utils.WriteSuccess(w, payload, "Tasks retrieved successfully", http.StatusOK)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskIDParam(r)
	if err != nil {
		writeDetailError(w, err)
		return
	}

	task, err := h.services.TaskService.GetTask(r.Context(), userIDFrom(r), id)
	if err != nil {
		logger.FromRequest(r).Err(err).Int64("task_id", id).Msg("task lookup failed")
		writeDetailError(w, err)
		return
	}

	utils.WriteSuccess(w, taskPayload{Task: newTaskView(task)}, "Task retrieved successfully", http.StatusOK)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id, err := taskIDParam(r)
	if err != nil {
		writeDetailError(w, err)
		return
	}

	var req models.UpdateTaskRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeDetailError(w, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	task, err := h.services.TaskService.UpdateTask(r.Context(), userIDFrom(r), id, req)
	if err != nil {
		log.Err(err).Int64("task_id", id).Msg("task update failed")
		writeDetailError(w, err)
		return
	}

	utils.WriteSuccess(w, taskPayload{Task: newTaskView(task)}, "Task updated successfully", http.StatusOK)
}

func (h *Handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskIDParam(r)
	if err != nil {
		writeDetailError(w, err)
		return
	}

	task, err := h.services.TaskService.ToggleTask(r.Context(), userIDFrom(r), id)
	if err != nil {
		logger.FromRequest(r).Err(err).Int64("task_id", id).Msg("task toggle failed")
		writeDetailError(w, err)
		return
	}

	utils.WriteSuccess(w, taskPayload{Task: newTaskView(task)}, "Task status updated successfully", http.StatusOK)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskIDParam(r)
	if err != nil {
		writeDetailError(w, err)
		return
	}

	if err = h.services.TaskService.DeleteTask(r.Context(), userIDFrom(r), id); err != nil {
		logger.FromRequest(r).Err(err).Int64("task_id", id).Msg("task deletion failed")
		writeDetailError(w, err)
		return
	}

	utils.WriteSuccess(w, nil, "Task deleted successfully", http.StatusOK)
}

func taskIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaskID, chi.URLParam(r, "taskID"))
	}
	return id, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
	}
	return n, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
