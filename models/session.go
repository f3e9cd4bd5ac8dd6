// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SessionStatus describes the authentication state of the client.
type SessionStatus int

const (
	// SessionAnonymous means no credential is held. It is the initial state
	// and the state after logout or credential invalidation.
	SessionAnonymous SessionStatus = iota

	// SessionAuthenticated means a credential and identity are held.
	SessionAuthenticated
)

// String returns a lower-case name of the status.
func (s SessionStatus) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Identity is the locally cached view of the signed-in user.
type Identity struct {
	// ID is the opaque user identifier issued by the server.
	// It is used to build user-scoped paths such as /{userId}/chat.
	ID string `json:"id"`

	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the authenticated-session state owned by the session store.
//
// Token is non-empty if and only if Status is [SessionAuthenticated].
// Copies handed out to callers are snapshots and never observe later
// transitions.
type Session struct {
	Token  string        `json:"-"`
	User   Identity      `json:"user"`
	Status SessionStatus `json:"-"`
}

// AnonymousSession returns the zero session.
func AnonymousSession() Session {
	return Session{Status: SessionAnonymous}
}

// NewAuthenticatedSession builds a session for a freshly issued credential.
func NewAuthenticatedSession(token string, user Identity) Session {
	return Session{Token: token, User: user, Status: SessionAuthenticated}
}

// IsAuthenticated reports whether the session holds a credential.
func (s Session) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.Token != ""
}
