// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo

	// changes is signalled by the task service after every change of the
	// cache; the main loop waits on it.
	changes chan struct{}

	logger *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, errNoServices
	}

	t := &TUI{
		services:  services,
		buildInfo: buildInfo,
		changes:   make(chan struct{}, 1),
		logger:    log,
	}
	services.TaskService.OnChange(t.notifyChange)

	return t, nil
}

func (t *TUI) notifyChange() {
	select {
	case t.changes <- struct{}{}:
	default:
	}
}

// AuthFlow shows the sign-in pages until the user logs in or registers.
func (t *TUI) AuthFlow(ctx context.Context) (models.Session, error) {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, t.services.SessionStore),
		pageRegister: NewRegisterModel(ctx, t.services.SessionStore),
	}

	root := NewRootModel(pages, pageMenu, t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.AnonymousSession(), runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.AnonymousSession(), tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.AnonymousSession(), ErrUserQuit
	}

	return result.session, nil
}

// MainLoop runs the task and chat screens. logout reports that the user
// signed out (or the session was dropped) rather than quitting.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, t.changes, t.logger)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
