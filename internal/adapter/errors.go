// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Failure classes. A *models.APIError returned by this package unwraps to
// exactly one of them.
var (
	// ErrNetwork covers transport faults: DNS, refused connections,
	// timeouts, cancellation and bodies that are not valid envelopes.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized means the credential is missing, expired or rejected,
	// or the login credentials were wrong.
	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// ErrRemote is any other failure reported by the server.
	ErrRemote = errors.New("remote error")
)
