// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// WireUser is the user object returned by the authentication endpoints.
type WireUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// Identity converts the wire user into the locally cached identity.
func (u WireUser) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is the data payload of a successful login or registration.
type AuthResponse struct {
	// Token is the bearer credential attached to every subsequent request.
	Token string   `json:"token"`
	User  WireUser `json:"user"`
}
