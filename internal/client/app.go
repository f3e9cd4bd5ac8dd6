// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/tui"
)

var errNilDependency = errors.New("client app dependency is nil")

type App struct {
	services *service.ClientServices
	ui       UI
	workers  Workers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, workers Workers, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil || workers == nil {
		return nil, errNilDependency
	}
	return &App{services: services, ui: ui, workers: workers, logger: log}, nil
}

// Run restores the saved session, or asks the user to sign in, and then
// runs the main screens. Signing out returns to the sign-in pages.
func (a *App) Run() error {
	return a.run(context.Background())
}

func (a *App) run(ctx context.Context) error {
	session := a.services.SessionStore.Restore(ctx)

	for {
		if !session.IsAuthenticated() {
			var err error
			session, err = a.ui.AuthFlow(ctx)
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("auth flow: %w", err)
			}
		}
		a.logger.Info().Str("user_id", session.User.ID).Msg("session started")

		logout, err := a.runSession(ctx)
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}

		a.logger.Info().Msg("session ended")
		session = a.services.SessionStore.Current()
	}
}

func (a *App) runSession(ctx context.Context) (bool, error) {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Start(sessionCtx)
	defer a.workers.Stop()

	return a.ui.MainLoop(sessionCtx)
}
