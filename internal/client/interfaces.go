// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/models"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

// UI is the interactive front end driven by [App].
type UI interface {
	// AuthFlow blocks until the user has signed in.
	AuthFlow(ctx context.Context) (models.Session, error)

	// MainLoop blocks until the user quits or signs out.
	MainLoop(ctx context.Context) (logout bool, err error)
}

// Workers are started for every signed-in session and stopped when it ends.
type Workers interface {
	Start(ctx context.Context)
	Stop()
}
