// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	completedStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	pendingStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	assistantStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	syntheticStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	codeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)
