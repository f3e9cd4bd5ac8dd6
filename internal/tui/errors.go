// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
)

var errNoServices = errors.New("client services are not set")

// humanizeError turns a service or remote failure into a line for the
// status bar.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *models.APIError
	switch {
	case errors.Is(err, adapter.ErrNetwork):
		return "Отсутствует сеть или Сервер недоступен"
	case errors.Is(err, service.ErrAuthRequired):
		return "Требуется вход"
	case errors.Is(err, adapter.ErrUnauthorized):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "Сессия истекла, войдите снова"
	case errors.Is(err, service.ErrValidation):
		return "Проверьте введённые данные: " + err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, adapter.ErrNotFound):
		return "Задача не найдена"
	case errors.Is(err, adapter.ErrForbidden):
		return "Нет доступа"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}

	return err.Error()
}
