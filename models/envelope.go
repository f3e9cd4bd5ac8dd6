// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform response shape of the remote service.
//
// Success responses carry Data; failures carry Error. Transport faults are
// normalized by the gateway into the same shape so callers never see raw
// HTTP or network errors.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *APIError       `json:"error,omitempty"`

	// Status is the HTTP status code of the response, zero for faults that
	// never produced a response.
	Status int `json:"-"`
}

// APIError is the remote error object. It doubles as the Go error returned
// by the adapter layer.
//
// Kind is set by the gateway classifier to one of the adapter sentinel errors
// so that errors.Is can match a class of failures regardless of the exact
// code.
type APIError struct {
	// Code is a machine-readable identifier such as "AUTH_001".
	Code string `json:"code"`

	// Message is the human-readable explanation suitable for display.
	Message string `json:"message"`

	Details any `json:"details,omitempty"`

	Status int   `json:"-"`
	Kind   error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the failure class for errors.Is.
func (e *APIError) Unwrap() error {
	return e.Kind
}
