// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-task-keeper/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	rows := [][2]string{
		{"Приложение", "TaskKeeper"},
		{"Версия", info.Version},
		{"Дата сборки", info.Date},
		{"Коммит", info.Commit},
	}

	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row[0]))
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		value := strings.TrimSpace(row[1])
		if value == "" {
			value = "N/A"
		}
		lines = append(lines, fmt.Sprintf("%s  %s", titleStyle.Render(padRight(row[0]+":", labelWidth+1)), value))
	}

	return renderPage("ИНФОРМАЦИЯ О ПРОГРАММЕ", strings.Join(lines, "\n"), "esc: назад")
}
