// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

// Services groups the development server services consumed by the HTTP
// handler.
type Services struct {
	AuthService      AuthService
	TaskService      TaskService
	AssistantService AssistantService
	AppInfoService   AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.DevServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	taskService := NewTaskValidationService().Wrap(NewTaskService(storages.TaskRepository, logger))

	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, cfg, logger),
		TaskService:      taskService,
		AssistantService: NewAssistantService(storages.ConversationRepository, taskService, logger),
		AppInfoService:   appInfoService,
	}, nil
}
