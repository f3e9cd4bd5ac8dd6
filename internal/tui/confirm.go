// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"

	"github.com/MKhiriev/go-task-keeper/models"
)

// renderDeleteConfirm asks before a task is removed.
func renderDeleteConfirm(t models.Task) string {
	content := fmt.Sprintf("Удалить задачу %q?\n", fitText(t.Title, 48))
	content += helpStyle.Render(fmt.Sprintf("приоритет: %s, срок: %s", t.Priority, dateOrDash(t.DueDate)))
	content += "\n\ny да    n нет"
	return overlayBoxStyle.Render(content)
}
