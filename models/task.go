// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is applied when the remote omits the priority.
const DefaultPriority = PriorityMedium

// Priorities lists every valid priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority validates s. An empty string yields [DefaultPriority].
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return DefaultPriority, nil
	}
	for _, p := range Priorities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// SyncState tracks a task's relationship with the server copy.
type SyncState int

const (
	// Synced means the local copy matches the last server acknowledgement.
	Synced SyncState = iota
	// PendingCreate marks a provisional task awaiting its server id.
	PendingCreate
	// PendingUpdate marks an optimistic patch awaiting acknowledgement.
	PendingUpdate
	// PendingDelete marks a task hidden from listings until removal is acknowledged.
	PendingDelete
	// Failed marks a task whose last mutation was rejected and rolled back.
	Failed
)

var syncStateNames = map[SyncState]string{
	Synced:        "synced",
	PendingCreate: "pending-create",
	PendingUpdate: "pending-update",
	PendingDelete: "pending-delete",
	Failed:        "failed",
}

func (s SyncState) String() string {
	if name, ok := syncStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sync-state(%d)", int(s))
}

// IsPending reports whether a mutation on the task is in flight.
func (s SyncState) IsPending() bool {
	return s == PendingCreate || s == PendingUpdate || s == PendingDelete
}

// Task is the client-side representation of a to-do item.
type Task struct {
	// ID is the server-issued identifier in decimal form, or a provisional
	// "tmp-" prefixed identifier while the create is unacknowledged.
	ID string

	UserID      string
	Title       string
	Description *string
	IsCompleted bool
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// SyncState is local bookkeeping and is never sent to the server.
	SyncState SyncState
}

// TaskDraft holds the user-supplied fields of a task that does not exist yet.
type TaskDraft struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    Priority
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
	DueDate     *time.Time
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil &&
		p.DueDate == nil && p.Priority == nil
}

// Apply returns a copy of t with the non-nil fields of p applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// TaskStatusFilter narrows a task listing by completion state.
type TaskStatusFilter string

const (
	TaskStatusAll       TaskStatusFilter = "all"
	TaskStatusPending   TaskStatusFilter = "pending"
	TaskStatusCompleted TaskStatusFilter = "completed"
)

// ListTasksRequest carries the query parameters of GET /tasks.
type ListTasksRequest struct {
	Status TaskStatusFilter
	Limit  int
	Offset int
}
