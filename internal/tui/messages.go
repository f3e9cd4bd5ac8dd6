// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-task-keeper/models"
)

// NavigateTo switches the active page of [RootModel]. Payload, when set,
// is delivered to the new page as the next message.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult is produced by the login and register pages.
type LoginResult struct {
	Session models.Session
	Err     error
}

type tasksChangedMsg struct{}

type refreshDoneMsg struct {
	err error
}

type mutationDoneMsg struct {
	op   string
	task models.Task
	err  error
}

type chatReplyMsg struct {
	reply models.Message
	err   error
}

type historyLoadedMsg struct {
	items []models.ConversationSummary
	err   error
}

type resumeDoneMsg struct {
	err error
}

type logoutDoneMsg struct {
	err error
}

type clearStatusMsg struct{}

type copiedMsg struct {
	err error
}
