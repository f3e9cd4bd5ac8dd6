// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WireTask is the task object exchanged with the remote service.
//
// The remote store uses numeric ids, may encode booleans as 0/1 and emits
// timestamps without a zone designator. WireID, FlexBool and Timestamp absorb
// those variations so the rest of the client deals with one shape.
type WireTask struct {
	ID          WireID     `json:"id"`
	UserID      string     `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsCompleted FlexBool   `json:"is_completed"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

// TaskPayload is the data payload of the single-task endpoints.
type TaskPayload struct {
	Task WireTask `json:"task"`
}

// TaskList is the data payload of GET /tasks.
type TaskList struct {
	Tasks  []WireTask `json:"tasks"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	Priority    string     `json:"priority,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Only set fields are sent.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
}

// WireID is a task identifier that decodes from a JSON number or string and
// encodes as a number whenever it is purely decimal.
type WireID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *WireID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = WireID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("cannot decode %s as id: %w", string(data), err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id %s is not an integer", n)
	}
	*id = WireID(n.String())
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id WireID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// FlexBool decodes JSON true/false, 0/1 and their string forms.
// It always encodes as a JSON boolean.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*b = false
		return nil
	}
	raw = strings.Trim(raw, `"`)

	switch strings.ToLower(raw) {
	case "true", "1":
		*b = true
		return nil
	case "false", "0", "":
		*b = false
		return nil
	}
	return fmt.Errorf("cannot decode %s as boolean", string(data))
}

// MarshalJSON implements json.Marshaler.
func (b FlexBool) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(b)), nil
}

// naiveLayouts are tried, in order, when a timestamp has no zone designator.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a point in time that decodes RFC 3339 as well as naive
// ISO-8601 values. Naive values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using the same rules as UnmarshalJSON.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
