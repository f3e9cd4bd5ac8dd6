// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// chat failures other than a path/token user mismatch are answered with
// 200 and success=false.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID := userIDFrom(r)
	if chi.URLParam(r, "userID") != userID {
		writeDetailText(w, "You can only access your own chat conversations", http.StatusForbidden)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteError(w, app.CodeInvalidRequest, app.MsgInvalidRequest, http.StatusOK)
		return
	}

	resp, err := h.services.AssistantService.Chat(r.Context(), userID, req)
	if err != nil {
		log.Err(err).Msg("chat failed")
		switch {
		case errors.Is(err, store.ErrConversationNotFound):
			utils.WriteError(w, app.CodeChatFailed, app.MsgConversationNotFound, http.StatusOK)
		case errors.Is(err, service.ErrConversationForbidden):
			utils.WriteError(w, app.CodeChatFailed, app.MsgConversationDenied, http.StatusOK)
		case errors.Is(err, service.ErrValidation):
			utils.WriteError(w, app.CodeChatFailed, err.Error(), http.StatusOK)
		default:
			utils.WriteError(w, app.CodeNetwork, "An unexpected error occurred: "+err.Error(), http.StatusOK)
		}
		return
	}

	utils.WriteSuccess(w, resp, "", http.StatusOK)
}

func (h *Handler) listConversations(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if chi.URLParam(r, "id") != userID {
		writeDetailText(w, "You can only access your own conversations", http.StatusForbidden)
		return
	}

	conversations, err := h.services.AssistantService.ListConversations(r.Context(), userID)
	if err != nil {
		logger.FromRequest(r).Err(err).Msg("conversation listing failed")
		utils.WriteError(w, app.CodeConversationsFailed, "Error retrieving conversations: "+err.Error(), http.StatusOK)
		return
	}

	payload := conversationListPayload{
		Conversations: make([]conversationView, 0, len(conversations)),
		Total:         len(conversations),
	}
	for _, c := range conversations {
		payload.Conversations = append(payload.Conversations, newConversationView(c))
	}
	utils.WriteSuccess(w, payload, "", http.StatusOK)
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	messages, err := h.services.AssistantService.ListMessages(r.Context(), userIDFrom(r), conversationID)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("conversation_id", conversationID).Msg("message listing failed")
		switch {
		case errors.Is(err, store.ErrConversationNotFound):
			utils.WriteError(w, app.CodeConversationNotFound, app.MsgConversationNotFound, http.StatusOK)
		case errors.Is(err, service.ErrConversationForbidden):
			utils.WriteError(w, app.CodeConversationDenied, app.MsgConversationDenied, http.StatusOK)
		default:
			utils.WriteError(w, app.CodeMessagesFailed, "Error retrieving messages: "+err.Error(), http.StatusOK)
		}
		return
	}

	payload := messageListPayload{
		ConversationID: conversationID,
		Messages:       make([]messageView, 0, len(messages)),
		Total:          len(messages),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, newMessageView(m))
	}
	utils.WriteSuccess(w, payload, "", http.StatusOK)
}
