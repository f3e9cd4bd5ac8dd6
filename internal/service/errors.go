// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Local failures. They are detected before any network call.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("task not found")
)

// Development server failures.
var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrWrongPassword           = errors.New("wrong password")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("version is not specified")
	ErrTaskForbidden           = errors.New("task belongs to another user")
	ErrConversationForbidden   = errors.New("conversation belongs to another user")
)

// Mutation names carried by [MutationError].
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpToggle = "toggle"
	OpRemove = "remove"
)

// MutationError reports a task mutation that failed after it was applied
// optimistically. Err is the remote *models.APIError.
type MutationError struct {
	TaskID string
	Op     string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
