// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-task-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldUserID targets the owner of a task or query.
	FieldUserID = "user_id"

	// FieldTitle targets the task title. It must be non-blank.
	FieldTitle = "title"

	// FieldPriority targets the priority; empty means the default.
	FieldPriority = "priority"

	// FieldStatus targets the completion filter of a listing.
	FieldStatus = "status"

	// FieldPage targets limit and offset of a listing.
	FieldPage = "page"

	// FieldMessage targets the text of a chat message.
	FieldMessage = "message"

	// FieldChanges requires an update to change at least one column.
	FieldChanges = "changes"
)

// MaxTitleLength bounds task titles in characters.
const MaxTitleLength = 255

// TaskValidator checks task requests and listings received by the
// development server.
type TaskValidator struct{}

func NewTaskValidator() Validator {
	return &TaskValidator{}
}

func (v *TaskValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreateTaskRequest:
		return v.validateCreate(value, fields...)
	case *models.CreateTaskRequest:
		return v.validateCreate(*value, fields...)

	case models.UpdateTaskRequest:
		return v.validateUpdate(value, fields...)
	case *models.UpdateTaskRequest:
		return v.validateUpdate(*value, fields...)

	case models.TaskQuery:
		return v.validateQuery(value, fields...)
	case *models.TaskQuery:
		return v.validateQuery(*value, fields...)

	case models.ChatRequest:
		return v.validateChat(value, fields...)
	case *models.ChatRequest:
		return v.validateChat(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *TaskValidator) validateCreate(req models.CreateTaskRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldPriority}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if err := validateTitle(req.Title); err != nil {
				return err
			}
		case FieldPriority:
			if _, err := models.ParsePriority(req.Priority); err != nil {
				return ErrInvalidPriority
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TaskValidator) validateUpdate(req models.UpdateTaskRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldPriority}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if req.Title == nil {
				continue
			}
			if err := validateTitle(*req.Title); err != nil {
				return err
			}
		case FieldPriority:
			if req.Priority == nil {
				continue
			}
			if _, err := models.ParsePriority(*req.Priority); err != nil || *req.Priority == "" {
				return ErrInvalidPriority
			}
		case FieldChanges:
			if req.Title == nil && req.Description == nil && req.IsCompleted == nil &&
				req.DueDate == nil && req.Priority == nil {
				return ErrNoFieldsToUpdate
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TaskValidator) validateQuery(query models.TaskQuery, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldStatus, FieldPriority, FieldPage}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if query.UserID == "" {
				return ErrInvalidUserID
			}
		case FieldStatus:
			switch query.Status {
			case "", models.TaskStatusAll, models.TaskStatusPending, models.TaskStatusCompleted:
			default:
				return ErrInvalidStatus
			}
		case FieldPriority:
			if _, err := models.ParsePriority(query.Priority); err != nil {
				return ErrInvalidPriority
			}
		case FieldPage:
			if query.Limit < 0 || query.Offset < 0 {
				return ErrInvalidPage
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TaskValidator) validateChat(req models.ChatRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMessage}
	}

	for _, f := range fields {
		switch f {
		case FieldMessage:
			if strings.TrimSpace(req.Message) == "" {
				return ErrEmptyMessage
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
