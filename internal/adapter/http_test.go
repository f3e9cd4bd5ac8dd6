// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAdapter creates an httpServerAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string, creds CredentialSource) ServerAdapter {
	t.Helper()
	a := NewHTTPServerAdapter(newTestGateway(t, serverURL, nil))
	if creds != nil {
		a.SetCredentialSource(creds)
	}
	return a
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}

const wireTaskJSON = `{"id":42,"user_id":"u-1","title":"Buy milk","description":null,"is_completed":0,"priority":"high","due_date":null,"created_at":"2026-03-01T10:00:00","updated_at":"2026-03-01T10:00:00"}`

// ── Auth ────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		assert.Equal(t, "a@x.io", body["email"])
		assert.Equal(t, "secret", body["password"])
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"user":{"id":"u-1","email":"a@x.io","name":"Ann"},"token":"T"}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, nil)
	got, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.io", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "T", got.Token)
	assert.Equal(t, "u-1", got.User.ID)
	assert.Equal(t, "Ann", got.User.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusUnauthorized, `{"detail":{"success":false,"error":{"code":"AUTH_001","message":"Invalid email or password"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, nil)
	_, err := a.Login(context.Background(), models.LoginRequest{Email: "a@x.io", Password: "bad"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, app.CodeInvalidCredentials, apiErr.Code)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestRegister_EmailTaken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		assert.Equal(t, "Ann", body["name"])
		writeBody(t, w, http.StatusBadRequest, `{"detail":{"success":false,"error":{"code":"AUTH_004","message":"Email already registered"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, nil)
	_, err := a.Register(context.Background(), models.RegisterRequest{Email: "a@x.io", Password: "p", Name: "Ann"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_EmailTakenWhileSignedIn(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer live", r.Header.Get("Authorization"))
		writeBody(t, w, http.StatusBadRequest, `{"detail":{"success":false,"error":{"code":"AUTH_004","message":"Email already registered"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	creds := &stubCredentials{token: "live"}
	a := newTestAdapter(t, srv.URL, creds)
	_, err := a.Register(context.Background(), models.RegisterRequest{Email: "a@x.io", Password: "p", Name: "Ann"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, creds.invalidated)
	assert.Equal(t, "live", creds.Token())
}

func TestLogout(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		writeBody(t, w, http.StatusOK, `{"success":true,"data":null,"message":"Logged out"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	require.NoError(t, a.Logout(context.Background()))
}

// ── Tasks ───────────────────────────────────────────────────────────────────

func TestListTasks_QueryParameters(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/tasks", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "completed", q.Get("status"))
		assert.Equal(t, "completed", q.Get("status_filter"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "20", q.Get("offset"))
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"tasks":[`+wireTaskJSON+`],"total":1,"limit":10,"offset":20}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.ListTasks(context.Background(), models.ListTasksRequest{Status: models.TaskStatusCompleted, Limit: 10, Offset: 20})

	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, models.WireID("42"), got.Tasks[0].ID)
	assert.False(t, bool(got.Tasks[0].IsCompleted))
	assert.Equal(t, 1, got.Total)
}

func TestListTasks_NoFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"tasks":[],"total":0}}`)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, nil)
	got, err := a.ListTasks(context.Background(), models.ListTasksRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
}

func TestCreateTask(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/tasks", func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		assert.Equal(t, "Buy milk", body["title"])
		assert.Equal(t, "high", body["priority"])
		_, hasDesc := body["description"]
		assert.False(t, hasDesc)
		writeBody(t, w, http.StatusCreated, `{"success":true,"data":{"task":`+wireTaskJSON+`},"message":"Task created successfully"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.CreateTask(context.Background(), models.CreateTaskRequest{Title: "Buy milk", Priority: "high"})

	require.NoError(t, err)
	assert.Equal(t, models.WireID("42"), got.ID)
	assert.Equal(t, "u-1", got.UserID)
}

func TestGetTask_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", chi.URLParam(r, "id"))
		writeBody(t, w, http.StatusNotFound, `{"detail":{"success":false,"error":{"code":"TASK_001","message":"Task not found"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	_, err := a.GetTask(context.Background(), "7")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTask_SendsOnlySetFields(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		body := readJSON(t, r)
		assert.Equal(t, map[string]any{"title": "Buy oat milk"}, body)
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"task":`+wireTaskJSON+`}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	title := "Buy oat milk"
	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	_, err := a.UpdateTask(context.Background(), "42", models.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
}

func TestToggleTask(t *testing.T) {
	r := chi.NewRouter()
	r.Patch("/tasks/{id}/toggle-status", func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"task":{"id":42,"title":"Buy milk","is_completed":1,"created_at":"2026-03-01T10:00:00","updated_at":"2026-03-01T10:05:00"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.ToggleTask(context.Background(), "42")

	require.NoError(t, err)
	assert.True(t, bool(got.IsCompleted))
}

func TestDeleteTask_Forbidden(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusForbidden, `{"detail":{"success":false,"error":{"code":"TASK_002","message":"Access denied"}}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	err := a.DeleteTask(context.Background(), "42")

	assert.ErrorIs(t, err, ErrForbidden)
}

// ── Chat ────────────────────────────────────────────────────────────────────

func TestChat(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/{userID}/chat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u-1", chi.URLParam(r, "userID"))
		body := readJSON(t, r)
		assert.Equal(t, "add a task Buy milk", body["message"])
		assert.Equal(t, "c-1", body["conversation_id"])
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"conversation_id":"c-1","response":"Added **Buy milk**","tool_calls":[{"name":"add_task","parameters":{"title":"Buy milk"}}]}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conv := "c-1"
	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.Chat(context.Background(), "u-1", models.ChatRequest{Message: "add a task Buy milk", ConversationID: &conv})

	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ConversationID)
	require.Len(t, got.ToolCalls, 1)
	assert.Equal(t, "add_task", got.ToolCalls[0].Name)
}

func TestChat_FailureEnvelopeWithOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{"success":false,"error":{"code":"CHAT_001","message":"Failed to process chat message"}}`)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	_, err := a.Chat(context.Background(), "u-1", models.ChatRequest{Message: "hi"})

	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "CHAT_001")
}

func TestListConversations(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/conversations/{userID}", func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"conversations":[{"id":"c-1","user_id":"u-1","title":null,"is_active":1,"created_at":"2026-03-01T10:00:00","updated_at":"2026-03-01T10:00:00"}],"total":1}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.ListConversations(context.Background(), "u-1")

	require.NoError(t, err)
	require.Len(t, got.Conversations, 1)
	assert.True(t, bool(got.Conversations[0].IsActive))
}

func TestConversationMessages(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/conversations/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c-1", chi.URLParam(r, "id"))
		writeBody(t, w, http.StatusOK, `{"success":true,"data":{"messages":[{"id":"m-1","conversation_id":"c-1","role":"user","content":"hi","timestamp":"2026-03-01T10:00:00","sequence_number":1}],"total":1}}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, &stubCredentials{token: "T"})
	got, err := a.ConversationMessages(context.Background(), "c-1")

	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}
