// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// provisionalPrefix marks ids generated locally for unacknowledged creates.
const provisionalPrefix = "tmp-"

var (
	errInvalidWireTask = errors.New("invalid task from server")
	errProvisionalID   = errors.New("provisional task id cannot be sent")
)

func isProvisional(id string) bool {
	return strings.HasPrefix(id, provisionalPrefix)
}

// fromWire converts a server task into its local form. It is the only place
// that knows the wire representation.
func fromWire(w models.WireTask) (models.Task, error) {
	if w.ID == "" {
		return models.Task{}, fmt.Errorf("%w: missing id", errInvalidWireTask)
	}
	priority, err := models.ParsePriority(w.Priority)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", errInvalidWireTask, err)
	}

	t := models.Task{
		ID:          string(w.ID),
		UserID:      w.UserID,
		Title:       w.Title,
		Description: cloneString(w.Description),
		IsCompleted: bool(w.IsCompleted),
		Priority:    priority,
		CreatedAt:   w.CreatedAt.Time,
		UpdatedAt:   w.UpdatedAt.Time,
		SyncState:   models.Synced,
	}
	if w.DueDate != nil {
		due := w.DueDate.Time
		t.DueDate = &due
	}
	return t, nil
}

// toWire is the inverse of fromWire. Provisional tasks have no wire form.
func toWire(t models.Task) (models.WireTask, error) {
	if t.ID == "" || isProvisional(t.ID) {
		return models.WireTask{}, fmt.Errorf("%w: %q", errProvisionalID, t.ID)
	}

	w := models.WireTask{
		ID:          models.WireID(t.ID),
		UserID:      t.UserID,
		Title:       t.Title,
		Description: cloneString(t.Description),
		IsCompleted: models.FlexBool(t.IsCompleted),
		Priority:    string(t.Priority),
		CreatedAt:   models.NewTimestamp(t.CreatedAt),
		UpdatedAt:   models.NewTimestamp(t.UpdatedAt),
	}
	if t.DueDate != nil {
		due := models.NewTimestamp(*t.DueDate)
		w.DueDate = &due
	}
	return w, nil
}

func toCreateRequest(t models.Task) models.CreateTaskRequest {
	req := models.CreateTaskRequest{
		Title:       t.Title,
		Description: cloneString(t.Description),
		Priority:    string(t.Priority),
	}
	if t.DueDate != nil {
		req.DueDate = timestampPtr(*t.DueDate)
	}
	return req
}

func toUpdateRequest(p models.TaskPatch) models.UpdateTaskRequest {
	req := models.UpdateTaskRequest{
		Title:       cloneString(p.Title),
		Description: cloneString(p.Description),
	}
	if p.IsCompleted != nil {
		done := *p.IsCompleted
		req.IsCompleted = &done
	}
	if p.DueDate != nil {
		req.DueDate = timestampPtr(*p.DueDate)
	}
	if p.Priority != nil {
		priority := string(*p.Priority)
		req.Priority = &priority
	}
	return req
}

func timestampPtr(t time.Time) *models.Timestamp {
	ts := models.NewTimestamp(t)
	return &ts
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
