// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeDetailError(w, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	account, err := h.services.AuthService.RegisterUser(ctx, req)
	if err != nil {
		log.Err(err).Msg("user registration failed")
		writeDetailError(w, err)
		return
	}

	h.writeAuthResponse(w, r, account, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeDetailError(w, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	account, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		log.Err(err).Msg("no user was found/wrong password")
		writeDetailError(w, err)
		return
	}

	log.Debug().Str("id", account.ID).Msg("user successfully logged in")
	h.writeAuthResponse(w, r, account, "Login successful")
}

// logout only acknowledges the request; issued tokens stay valid until
// they expire.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, nil, "Logout successful", http.StatusOK)
}

func (h *Handler) writeAuthResponse(w http.ResponseWriter, r *http.Request, account models.Account, message string) {
	token, err := h.services.AuthService.CreateToken(r.Context(), account)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("creation of token failed")
		writeDetailError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	utils.WriteSuccess(w, models.AuthResponse{Token: token, User: account.Wire()}, message, http.StatusOK)
}
