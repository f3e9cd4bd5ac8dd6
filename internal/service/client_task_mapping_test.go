// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func wireTasksForRoundTrip() []models.WireTask {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(90 * time.Minute)
	due := models.NewTimestamp(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	dueOffset := models.NewTimestamp(time.Date(2026, 4, 1, 9, 30, 0, 0, time.FixedZone("", 3*3600)))

	return []models.WireTask{
		{
			ID:          "42",
			UserID:      "u-1",
			Title:       "Buy milk",
			IsCompleted: false,
			Priority:    "low",
			CreatedAt:   models.NewTimestamp(created),
			UpdatedAt:   models.NewTimestamp(created),
		},
		{
			ID:          "7",
			UserID:      "u-1",
			Title:       "Write report",
			Description: strPtr("quarterly numbers"),
			IsCompleted: true,
			Priority:    "urgent",
			DueDate:     &due,
			CreatedAt:   models.NewTimestamp(created),
			UpdatedAt:   models.NewTimestamp(updated),
		},
		{
			ID:          "9007199254740993",
			Title:       "Call Ann",
			Description: strPtr(""),
			Priority:    "high",
			DueDate:     &dueOffset,
			CreatedAt:   models.NewTimestamp(created.Add(123456789 * time.Nanosecond)),
			UpdatedAt:   models.NewTimestamp(updated),
		},
		{
			ID:          "c0ffee",
			Title:       "Opaque id",
			IsCompleted: true,
			Priority:    "medium",
			CreatedAt:   models.NewTimestamp(created),
			UpdatedAt:   models.NewTimestamp(updated),
		},
	}
}

func TestMapping_WireToLocalToWire(t *testing.T) {
	for _, wire := range wireTasksForRoundTrip() {
		t.Run(string(wire.ID), func(t *testing.T) {
			local, err := fromWire(wire)
			require.NoError(t, err)
			assert.Equal(t, models.Synced, local.SyncState)

			back, err := toWire(local)
			require.NoError(t, err)
			assert.Equal(t, wire, back)
		})
	}
}

func TestMapping_LocalToWireToLocal(t *testing.T) {
	for _, wire := range wireTasksForRoundTrip() {
		local, err := fromWire(wire)
		require.NoError(t, err)

		encoded, err := toWire(local)
		require.NoError(t, err)
		decoded, err := fromWire(encoded)
		require.NoError(t, err)

		assert.Equal(t, local, decoded)
	}
}

func TestMapping_ThroughJSON(t *testing.T) {
	raw := `{"id":42,"user_id":"u-1","title":"Buy milk","description":null,"is_completed":1,` +
		`"priority":"low","due_date":"2026-03-15T00:00:00","created_at":"2026-03-01T10:00:00",` +
		`"updated_at":"2026-03-01 11:30:00.250000"}`

	var wire models.WireTask
	require.NoError(t, json.Unmarshal([]byte(raw), &wire))

	local, err := fromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, "42", local.ID)
	assert.True(t, local.IsCompleted)
	assert.Nil(t, local.Description)
	require.NotNil(t, local.DueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *local.DueDate)
	assert.Equal(t, time.Date(2026, 3, 1, 11, 30, 0, 250000000, time.UTC), local.UpdatedAt)

	encoded, err := toWire(local)
	require.NoError(t, err)
	data, err := json.Marshal(encoded)
	require.NoError(t, err)

	var again models.WireTask
	require.NoError(t, json.Unmarshal(data, &again))
	decoded, err := fromWire(again)
	require.NoError(t, err)
	assert.Equal(t, local.ID, decoded.ID)
	assert.Equal(t, local.IsCompleted, decoded.IsCompleted)
	assert.True(t, local.UpdatedAt.Equal(decoded.UpdatedAt))
	assert.True(t, local.DueDate.Equal(*decoded.DueDate))
}

func TestMapping_DoesNotShareDescription(t *testing.T) {
	wire := wireTasksForRoundTrip()[1]
	local, err := fromWire(wire)
	require.NoError(t, err)

	*local.Description = "changed"
	assert.Equal(t, "quarterly numbers", *wire.Description)
}

func TestFromWire_Rejects(t *testing.T) {
	_, err := fromWire(models.WireTask{Title: "no id", Priority: "low"})
	assert.ErrorIs(t, err, errInvalidWireTask)

	_, err = fromWire(models.WireTask{ID: "1", Title: "bad priority", Priority: "critical"})
	assert.ErrorIs(t, err, errInvalidWireTask)
}

func TestFromWire_DefaultsMissingPriority(t *testing.T) {
	local, err := fromWire(models.WireTask{ID: "1", Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, local.Priority)

	// the normalized value is stable from here on
	wire, err := toWire(local)
	require.NoError(t, err)
	assert.Equal(t, string(models.PriorityMedium), wire.Priority)

	again, err := fromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, local, again)
}

func TestToWire_RejectsProvisional(t *testing.T) {
	_, err := toWire(models.Task{ID: provisionalPrefix + "abc", Title: "x"})
	assert.ErrorIs(t, err, errProvisionalID)

	_, err = toWire(models.Task{Title: "x"})
	assert.ErrorIs(t, err, errProvisionalID)
}

func TestToUpdateRequest_OnlySetFields(t *testing.T) {
	done := true
	priority := models.PriorityHigh
	req := toUpdateRequest(models.TaskPatch{IsCompleted: &done, Priority: &priority})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_completed":true,"priority":"high"}`, string(data))
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
