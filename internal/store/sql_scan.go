// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func parseNaive(s string) (time.Time, error) {
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.Time.UTC(), nil
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		account          models.Account
		created, updated string
	)
	if err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PasswordHash, &created, &updated); err != nil {
		return models.Account{}, err
	}

	var err error
	if account.CreatedAt, err = parseNaive(created); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if account.UpdatedAt, err = parseNaive(updated); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return account, nil
}

func scanTask(row rowScanner) (models.TaskRecord, error) {
	var (
		task             models.TaskRecord
		description, due sql.NullString
		completed        int
		created, updated string
	)
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &description, &completed, &task.Priority,
		&due, &created, &updated); err != nil {
		return models.TaskRecord{}, err
	}

	task.IsCompleted = completed != 0
	if description.Valid {
		task.Description = &description.String
	}

	var err error
	if due.Valid {
		var t time.Time
		if t, err = parseNaive(due.String); err != nil {
			return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		task.DueDate = &t
	}
	if task.CreatedAt, err = parseNaive(created); err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if task.UpdatedAt, err = parseNaive(updated); err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return task, nil
}

func scanConversation(row rowScanner) (models.ConversationRecord, error) {
	var (
		c                models.ConversationRecord
		title            sql.NullString
		active           int
		created, updated string
	)
	if err := row.Scan(&c.ID, &c.UserID, &title, &active, &created, &updated); err != nil {
		return models.ConversationRecord{}, err
	}

	c.IsActive = active != 0
	if title.Valid {
		c.Title = &title.String
	}

	var err error
	if c.CreatedAt, err = parseNaive(created); err != nil {
		return models.ConversationRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if c.UpdatedAt, err = parseNaive(updated); err != nil {
		return models.ConversationRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return c, nil
}

func scanMessage(row rowScanner) (models.MessageRecord, error) {
	var (
		m         models.MessageRecord
		role      string
		toolCalls sql.NullString
		timestamp string
	)
	if err := row.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &toolCalls, &timestamp, &m.SequenceNumber); err != nil {
		return models.MessageRecord{}, err
	}

	m.Role = models.Role(role)
	if toolCalls.Valid && toolCalls.String != "" {
		if err := json.Unmarshal([]byte(toolCalls.String), &m.ToolCalls); err != nil {
			return models.MessageRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
	}

	var err error
	if m.Timestamp, err = parseNaive(timestamp); err != nil {
		return models.MessageRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return m, nil
}
