// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

var (
	// ErrLocalSessionNotFound is returned by Load when nothing is persisted.
	ErrLocalSessionNotFound = errors.New("local session not found")

	// ErrUnknownBackend is returned for an unsupported storage backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Development server store errors.
var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrNoUserWasFound       = errors.New("no user was found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Low-level operation errors, wrapped together with the driver error.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to executing statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrWritingSessionFile   = errors.New("failed to write session file")
	ErrReadingSessionFile   = errors.New("failed to read session file")
)
