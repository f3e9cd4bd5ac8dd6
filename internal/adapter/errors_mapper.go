// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/models"
)

// maxMessageBody bounds how much of a non-JSON body is echoed into a message.
const maxMessageBody = 200

// networkEnvelope builds the synthetic envelope for a request that produced
// no usable response.
func networkEnvelope(message string, cause error) models.Envelope {
	apiErr := &models.APIError{Code: app.CodeNetwork, Message: message, Kind: ErrNetwork}
	if cause != nil {
		apiErr.Details = cause.Error()
	}
	return models.Envelope{Success: false, Error: apiErr}
}

// bodyShape detects which of the known body shapes a response has.
type bodyShape struct {
	Success *bool           `json:"success"`
	Detail  json.RawMessage `json:"detail"`
}

// normalize converts a raw HTTP response into an envelope.
func normalize(status int, body []byte) models.Envelope {
	body = bytes.TrimSpace(body)
	ok := status >= http.StatusOK && status < http.StatusMultipleChoices

	if len(body) == 0 {
		if ok {
			return models.Envelope{Success: true, Status: status}
		}
		return statusEnvelope(status, http.StatusText(status))
	}

	var p bodyShape
	if err := json.Unmarshal(body, &p); err != nil {
		if ok {
			env := networkEnvelope(app.MsgUnexpectedResponse, err)
			env.Status = status
			return env
		}
		return statusEnvelope(status, truncate(string(body)))
	}

	switch {
	case p.Success != nil:
		var env models.Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			env = networkEnvelope(app.MsgUnexpectedResponse, err)
			env.Status = status
			return env
		}
		if !ok {
			env.Success = false
		}
		if !env.Success && env.Error == nil {
			env.Error = statusError(status, env.Message)
		}
		env.Status = status
		return env

	case len(p.Detail) > 0 && !ok:
		env := unwrapDetail(status, p.Detail)
		env.Status = status
		return env

	case ok:
		// bare payload without an envelope
		return models.Envelope{Success: true, Data: json.RawMessage(body), Status: status}
	}

	return statusEnvelope(status, http.StatusText(status))
}

// unwrapDetail handles FastAPI error bodies: {"detail": {..envelope..}},
// {"detail": {"code","message"}}, {"detail": "text"} and validation lists
// {"detail": [{"msg": ...}]}.
func unwrapDetail(status int, detail json.RawMessage) models.Envelope {
	var env models.Envelope
	if err := json.Unmarshal(detail, &env); err == nil && env.Error != nil {
		env.Success = false
		return env
	}

	var apiErr models.APIError
	if err := json.Unmarshal(detail, &apiErr); err == nil && apiErr.Code != "" {
		return models.Envelope{Success: false, Error: &apiErr}
	}

	var text string
	if err := json.Unmarshal(detail, &text); err == nil {
		return statusEnvelope(status, text)
	}

	var items []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return statusEnvelope(status, strings.Join(msgs, "; "))
	}

	return statusEnvelope(status, http.StatusText(status))
}

func statusEnvelope(status int, message string) models.Envelope {
	return models.Envelope{Success: false, Error: statusError(status, message), Status: status}
}

// statusError derives an error from the HTTP status when the body carries
// no code.
func statusError(status int, message string) *models.APIError {
	if message == "" {
		message = http.StatusText(status)
	}

	code := fmt.Sprintf("HTTP_%d", status)
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = app.CodeInvalidRequest
	}
	return &models.APIError{Code: code, Message: message}
}

// classify picks the failure class of an error by code first, then status.
func classify(status int, code string) error {
	switch code {
	case app.CodeNetwork:
		return ErrNetwork
	case app.CodeTaskNotFound, app.CodeConversationNotFound:
		return ErrNotFound
	case app.CodeTaskForbidden, app.CodeConversationDenied:
		return ErrForbidden
	case app.CodeTaskInvalid, app.CodeInvalidRequest, app.CodeEmailTaken:
		return ErrValidation
	}
	if app.IsAuthCode(code) {
		return ErrUnauthorized
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	}
	return ErrRemote
}

func truncate(s string) string {
	if len(s) <= maxMessageBody {
		return s
	}
	return s[:maxMessageBody] + "..."
}
