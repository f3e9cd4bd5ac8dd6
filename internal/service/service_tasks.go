// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

type taskService struct {
	taskRepository store.TaskRepository

	now func() time.Time

	logger *logger.Logger
}

func NewTaskService(taskRepository store.TaskRepository, log *logger.Logger) TaskService {
	return &taskService{
		taskRepository: taskRepository,
		now:            func() time.Time { return time.Now().UTC() },
		logger:         log,
	}
}

func (s *taskService) CreateTask(ctx context.Context, userID string, req models.CreateTaskRequest) (models.TaskRecord, error) {
	priority, err := models.ParsePriority(req.Priority)
	if err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	now := s.now()
	task := models.TaskRecord{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    string(priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		task.DueDate = &due
	}

	return s.taskRepository.CreateTask(ctx, task)
}

func (s *taskService) GetTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error) {
	task, err := s.taskRepository.GetTask(ctx, id)
	if err != nil {
		return models.TaskRecord{}, err
	}
	if task.UserID != userID {
		logger.FromContext(ctx).Warn().Int64("task_id", id).Str("user_id", userID).Msg("task belongs to another user")
		return models.TaskRecord{}, ErrTaskForbidden
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, query models.TaskQuery) ([]models.TaskRecord, int, error) {
	if query.Status == "" {
		query.Status = models.TaskStatusAll
	}
	return s.taskRepository.ListTasks(ctx, query)
}

func (s *taskService) UpdateTask(ctx context.Context, userID string, id int64, req models.UpdateTaskRequest) (models.TaskRecord, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return models.TaskRecord{}, err
	}

	patch := models.TaskRecordPatch{
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		Priority:    req.Priority,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		patch.DueDate = &due
	}

	if err := s.taskRepository.UpdateTask(ctx, id, patch, s.now()); err != nil {
		return models.TaskRecord{}, err
	}
	return s.taskRepository.GetTask(ctx, id)
}

func (s *taskService) ToggleTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return models.TaskRecord{}, err
	}

	completed := !task.IsCompleted
	if err = s.taskRepository.UpdateTask(ctx, id, models.TaskRecordPatch{IsCompleted: &completed}, s.now()); err != nil {
		return models.TaskRecord{}, err
	}
	return s.taskRepository.GetTask(ctx, id)
}

func (s *taskService) DeleteTask(ctx context.Context, userID string, id int64) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	return s.taskRepository.DeleteTask(ctx, id)
}
