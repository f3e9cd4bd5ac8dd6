// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// apiFailure is how one error class is reported.
type apiFailure struct {
	status  int
	code    string
	message string
}

// failureRules are checked in order; the first match wins.
var failureRules = []struct {
	target  error
	failure apiFailure
}{
	{service.ErrTaskForbidden, apiFailure{http.StatusForbidden, app.CodeTaskForbidden, app.MsgTaskForbidden}},
	{store.ErrTaskNotFound, apiFailure{http.StatusNotFound, app.CodeTaskNotFound, app.MsgTaskNotFound}},
	{validators.ErrEmptyTitle, apiFailure{http.StatusUnprocessableEntity, app.CodeTaskInvalid, "Missing required fields"}},
	{service.ErrValidation, apiFailure{http.StatusUnprocessableEntity, app.CodeTaskInvalid, ""}},

	{store.ErrEmailAlreadyExists, apiFailure{http.StatusBadRequest, app.CodeEmailTaken, app.MsgEmailTaken}},
	{store.ErrNoUserWasFound, apiFailure{http.StatusUnauthorized, app.CodeInvalidCredentials, app.MsgInvalidCredentials}},
	{service.ErrWrongPassword, apiFailure{http.StatusUnauthorized, app.CodeInvalidCredentials, app.MsgInvalidCredentials}},
	{service.ErrInvalidDataProvided, apiFailure{http.StatusBadRequest, app.CodeInvalidRequest, app.MsgInvalidRequest}},
	{service.ErrTokenIsExpiredOrInvalid, apiFailure{http.StatusUnauthorized, app.CodeTokenExpired, app.MsgTokenExpired}},
	{ErrInvalidJSON, apiFailure{http.StatusBadRequest, app.CodeInvalidRequest, app.MsgInvalidRequest}},
	{ErrInvalidTaskID, apiFailure{http.StatusNotFound, app.CodeTaskNotFound, app.MsgTaskNotFound}},
	{ErrInvalidQuery, apiFailure{http.StatusUnprocessableEntity, app.CodeInvalidRequest, app.MsgInvalidRequest}},
}

func failureFromError(err error) apiFailure {
	for _, rule := range failureRules {
		if errors.Is(err, rule.target) {
			f := rule.failure
			if f.message == "" {
				f.message = err.Error()
			}
			return f
		}
	}
	return apiFailure{http.StatusInternalServerError, app.CodeStorage, app.MsgInternalServerError}
}

// writeDetailError reports err as {"detail": {success:false, error:{code, message}}}.
func writeDetailError(w http.ResponseWriter, err error) {
	f := failureFromError(err)
	utils.WriteJSON(w, detailBody{Detail: models.Envelope{
		Success: false,
		Error:   &models.APIError{Code: f.code, Message: f.message},
	}}, f.status)
}

// writeDetailText reports a plain {"detail": "..."} body.
func writeDetailText(w http.ResponseWriter, text string, status int) {
	utils.WriteJSON(w, detailBody{Detail: text}, status)
}

type detailBody struct {
	Detail any `json:"detail"`
}
