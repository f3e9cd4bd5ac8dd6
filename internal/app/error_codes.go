// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains application-level constants shared by the client
// transport layer and the development server.
//
// Code* constants are the machine-readable error codes carried in the
// "error.code" field of the response envelope. Msg* constants are the
// human-readable messages paired with them.
package app

import "strings"

const (
	// CodeInvalidCredentials is returned when the email/password pair does not
	// match any account.
	CodeInvalidCredentials = "AUTH_001"

	// CodeMissingToken is returned when a protected endpoint is called without
	// a bearer credential.
	CodeMissingToken = "AUTH_002"

	// CodeTokenExpired is returned when the bearer credential has expired or
	// cannot be verified. The client also synthesizes it when it detects an
	// expired credential locally.
	CodeTokenExpired = "AUTH_003"

	// CodeEmailTaken is returned when registration uses an existing email.
	CodeEmailTaken = "AUTH_004"

	// CodeTaskNotFound is returned when the task does not exist.
	CodeTaskNotFound = "TASK_001"

	// CodeTaskForbidden is returned when the task belongs to another user.
	CodeTaskForbidden = "TASK_002"

	// CodeTaskInvalid is returned when required task fields are missing.
	CodeTaskInvalid = "TASK_003"

	// CodeChatFailed is returned when the assistant could not process a message.
	CodeChatFailed = "CHAT_001"

	CodeConversationsFailed  = "CONV_001"
	CodeConversationNotFound = "MSG_001"
	CodeConversationDenied   = "MSG_002"
	CodeMessagesFailed       = "MSG_003"

	// CodeNetwork is used for transport faults and unexpected responses.
	CodeNetwork = "GENERAL_001"

	// CodeStorage is returned when the remote store failed.
	CodeStorage = "GENERAL_002"

	// CodeInvalidRequest is returned for malformed request bodies.
	CodeInvalidRequest = "GENERAL_003"
)

const (
	MsgInvalidCredentials   = "invalid email or password"
	MsgMissingToken         = "authentication required"
	MsgTokenExpired         = "session expired, please log in again"
	MsgEmailTaken           = "email already registered"
	MsgTaskNotFound         = "task not found"
	MsgTaskForbidden        = "access to task denied"
	MsgTaskTitleRequired    = "title is required"
	MsgChatFailed           = "assistant failed to process the message"
	MsgConversationNotFound = "conversation not found"
	MsgConversationDenied   = "you don't have access to this conversation"
	MsgNetwork              = "network error, please try again"
	MsgUnexpectedResponse   = "unexpected response from server"
	MsgInvalidRequest       = "invalid data provided"
	MsgInternalServerError  = "internal server error"
)

// IsAuthCode reports whether code belongs to the AUTH_ family.
func IsAuthCode(code string) bool {
	return strings.HasPrefix(code, "AUTH_")
}

// IsCredentialRejection reports whether code means the server refused the
// bearer credential, as opposed to a failed login attempt.
func IsCredentialRejection(code string) bool {
	return code == CodeMissingToken || code == CodeTokenExpired
}

// IsSignInFailure reports whether code is the outcome of a rejected login or
// registration. Such failures say nothing about the credential in use.
func IsSignInFailure(code string) bool {
	return code == CodeInvalidCredentials || code == CodeEmailTaken
}
