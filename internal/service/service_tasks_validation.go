// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// TaskValidationService rejects malformed task requests before they reach
// the wrapped TaskService. Validation failures wrap [ErrValidation].
type TaskValidationService struct {
	inner     TaskService
	validator validators.Validator
}

func NewTaskValidationService() TaskServiceWrapper {
	return &TaskValidationService{
		validator: validators.NewTaskValidator(),
	}
}

func (v *TaskValidationService) CreateTask(ctx context.Context, userID string, req models.CreateTaskRequest) (models.TaskRecord, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.CreateTask(ctx, userID, req)
}

func (v *TaskValidationService) GetTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error) {
	return v.inner.GetTask(ctx, userID, id)
}

func (v *TaskValidationService) ListTasks(ctx context.Context, query models.TaskQuery) ([]models.TaskRecord, int, error) {
	if err := v.validator.Validate(ctx, query); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.ListTasks(ctx, query)
}

func (v *TaskValidationService) UpdateTask(ctx context.Context, userID string, id int64, req models.UpdateTaskRequest) (models.TaskRecord, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return v.inner.UpdateTask(ctx, userID, id, req)
}

func (v *TaskValidationService) ToggleTask(ctx context.Context, userID string, id int64) (models.TaskRecord, error) {
	return v.inner.ToggleTask(ctx, userID, id)
}

func (v *TaskValidationService) DeleteTask(ctx context.Context, userID string, id int64) error {
	return v.inner.DeleteTask(ctx, userID, id)
}

func (v *TaskValidationService) Wrap(inner TaskService) TaskService {
	v.inner = inner
	return v
}
