// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request payloads received by the development
// server before they reach the task and assistant services.
//
// A Validator accepts the decoded request value (create and update task
// requests, task listing queries, chat requests) and an optional list of
// field names. When fields are given only those fields are checked, which
// lets a partial update skip the rules for fields it does not carry.
//
// Failures are returned as errors wrapping one of the sentinels in
// errors.go, so callers can map them to a validation response.
package validators

import "context"

// Validator validates one request value.
type Validator interface {
	// Validate checks obj, limiting the checks to fields when any are named.
	// An unsupported obj type yields ErrUnsupportedType.
	Validate(ctx context.Context, obj any, fields ...string) error
}
