// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// NaiveLayout is the zone-less timestamp format written by the development
// server store, matching what Python's datetime.isoformat emits for naive
// UTC values.
const NaiveLayout = "2006-01-02T15:04:05.000000"

// FormatNaive renders t in UTC without a zone designator.
func FormatNaive(t time.Time) string {
	return t.UTC().Format(NaiveLayout)
}

// Account is a user record held by the development server.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Wire returns the public part of the account.
func (a Account) Wire() WireUser {
	created, updated := NewTimestamp(a.CreatedAt), NewTimestamp(a.UpdatedAt)
	return WireUser{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}

// TaskRecord is a task row of the development server.
type TaskRecord struct {
	ID          int64
	UserID      string
	Title       string
	Description *string
	IsCompleted bool
	Priority    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskRecordPatch lists the columns an update changes. Nil fields are
// left as they are.
type TaskRecordPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
	DueDate     *time.Time
	Priority    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskRecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil &&
		p.DueDate == nil && p.Priority == nil
}

// TaskQuery selects the tasks of one user.
type TaskQuery struct {
	UserID   string
	Status   TaskStatusFilter
	Priority string
	Limit    int
	Offset   int
}

// ConversationRecord is a conversation row of the development server.
type ConversationRecord struct {
	ID        string
	UserID    string
	Title     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MessageRecord is a stored conversation message.
type MessageRecord struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	ToolCalls      []ToolCall
	Timestamp      time.Time
	SequenceNumber int
}
