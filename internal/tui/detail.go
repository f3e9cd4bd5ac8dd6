// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-task-keeper/models"
)

func renderTaskDetail(t models.Task) string {
	status := "активна"
	if t.IsCompleted {
		status = "выполнена"
	}

	rows := [][2]string{
		{"Задача", t.Title},
		{"Описание", valueOrDash(t.Description)},
		{"Статус", status},
		{"Важность", string(t.Priority)},
		{"Срок", dateOrDash(t.DueDate)},
		{"Создана", t.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Изменена", t.UpdatedAt.Local().Format("2006-01-02 15:04")},
		{"Синхронизация", t.SyncState.String()},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(padRight(row[0], 13))
		b.WriteString(" │ ")
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
