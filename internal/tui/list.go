// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-keeper/models"
)

var filterNames = map[models.TaskStatusFilter]string{
	models.TaskStatusAll:       "все",
	models.TaskStatusPending:   "активные",
	models.TaskStatusCompleted: "выполненные",
}

// nextFilter cycles all → pending → completed.
func nextFilter(f models.TaskStatusFilter) models.TaskStatusFilter {
	switch f {
	case models.TaskStatusAll, "":
		return models.TaskStatusPending
	case models.TaskStatusPending:
		return models.TaskStatusCompleted
	default:
		return models.TaskStatusAll
	}
}

func checkbox(t models.Task) string {
	if t.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

func syncMarker(s models.SyncState) string {
	switch s {
	case models.PendingCreate, models.PendingUpdate, models.PendingDelete:
		return pendingStyle.Render("⟳")
	case models.Failed:
		return errorStyle.Render("!")
	default:
		return " "
	}
}

// renderTaskList draws the task table with the cursor on idx.
func renderTaskList(tasks []models.Task, idx, width int) string {
	if len(tasks) == 0 {
		return "Нет задач"
	}

	titleWidth := width - 40
	if titleWidth < 20 {
		titleWidth = 20
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("    %-3s │ %-*s │ %-8s │ %-10s\n", "", titleWidth, "Задача", "Важность", "Срок"))
	b.WriteString("    ")
	b.WriteString(strings.Repeat("─", 4))
	b.WriteString("┼")
	b.WriteString(strings.Repeat("─", titleWidth+2))
	b.WriteString("┼──────────┼───────────\n")

	for i, t := range tasks {
		cursor := "  "
		if i == idx {
			cursor = "> "
		}
		title := padRight(fitText(t.Title, titleWidth), titleWidth)
		if t.IsCompleted {
			title = completedStyle.Render(title)
		}
		line := fmt.Sprintf("%s%s %s │ %s │ %-8s │ %-10s",
			cursor, syncMarker(t.SyncState), checkbox(t), title, t.Priority, dateOrDash(t.DueDate))
		if i == idx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
