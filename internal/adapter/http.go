// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-task-keeper/models"
)

type httpServerAdapter struct {
	gateway Gateway
}

// NewHTTPServerAdapter builds the typed endpoint layer on top of gateway.
func NewHTTPServerAdapter(gateway Gateway) ServerAdapter {
	return &httpServerAdapter{gateway: gateway}
}

func (h *httpServerAdapter) SetCredentialSource(src CredentialSource) {
	h.gateway.SetCredentialSource(src)
}

// Login posts the credentials to POST /auth/login.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return Decode[models.AuthResponse](h.gateway.Send(ctx, http.MethodPost, "/auth/login", nil, req))
}

// Register creates an account through POST /auth/register and returns the
// issued session.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return Decode[models.AuthResponse](h.gateway.Send(ctx, http.MethodPost, "/auth/register", nil, req))
}

func (h *httpServerAdapter) Logout(ctx context.Context) error {
	return noContent(h.gateway.Send(ctx, http.MethodPost, "/auth/logout", nil, nil))
}

// ListTasks fetches GET /tasks. The status filter is sent under both the
// "status" and "status_filter" names; servers ignore the one they do not
// know.
func (h *httpServerAdapter) ListTasks(ctx context.Context, req models.ListTasksRequest) (models.TaskList, error) {
	query := url.Values{}
	if req.Status != "" {
		query.Set("status", string(req.Status))
		query.Set("status_filter", string(req.Status))
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", strconv.Itoa(req.Offset))
	}

	return Decode[models.TaskList](h.gateway.Send(ctx, http.MethodGet, "/tasks", query, nil))
}

func (h *httpServerAdapter) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.WireTask, error) {
	return taskOf(h.gateway.Send(ctx, http.MethodPost, "/tasks", nil, req))
}

func (h *httpServerAdapter) GetTask(ctx context.Context, id string) (models.WireTask, error) {
	return taskOf(h.gateway.Send(ctx, http.MethodGet, taskPath(id), nil, nil))
}

func (h *httpServerAdapter) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.WireTask, error) {
	return taskOf(h.gateway.Send(ctx, http.MethodPut, taskPath(id), nil, req))
}

func (h *httpServerAdapter) DeleteTask(ctx context.Context, id string) error {
	return noContent(h.gateway.Send(ctx, http.MethodDelete, taskPath(id), nil, nil))
}

// ToggleTask flips completion through PATCH /tasks/{id}/toggle-status.
func (h *httpServerAdapter) ToggleTask(ctx context.Context, id string) (models.WireTask, error) {
	return taskOf(h.gateway.Send(ctx, http.MethodPatch, taskPath(id)+"/toggle-status", nil, nil))
}

func (h *httpServerAdapter) Chat(ctx context.Context, userID string, req models.ChatRequest) (models.ChatResponse, error) {
	path := "/" + url.PathEscape(userID) + "/chat"
	return Decode[models.ChatResponse](h.gateway.Send(ctx, http.MethodPost, path, nil, req))
}

func (h *httpServerAdapter) ListConversations(ctx context.Context, userID string) (models.ConversationList, error) {
	path := "/conversations/" + url.PathEscape(userID)
	return Decode[models.ConversationList](h.gateway.Send(ctx, http.MethodGet, path, nil, nil))
}

func (h *httpServerAdapter) ConversationMessages(ctx context.Context, conversationID string) (models.MessageList, error) {
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	return Decode[models.MessageList](h.gateway.Send(ctx, http.MethodGet, path, nil, nil))
}

// noContent reports the outcome of endpoints whose payload is ignored.
func noContent(env models.Envelope) error {
	_, err := Decode[json.RawMessage](env)
	return err
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// taskOf unwraps the {"task": {...}} payload of single-task endpoints.
func taskOf(env models.Envelope) (models.WireTask, error) {
	payload, err := Decode[models.TaskPayload](env)
	if err != nil {
		return models.WireTask{}, err
	}
	return payload.Task, nil
}
