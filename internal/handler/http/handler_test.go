// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/service"
)

const (
	testToken  = "good-token"
	testUserID = "user-1234567890"
)

var createdAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type testServices struct {
	auth      *mock.MockAuthService
	tasks     *mock.MockTaskService
	assistant *mock.MockAssistantService
	appInfo   *mock.MockAppInfoService
}

func newTestRouter(t *testing.T) (*chi.Mux, testServices) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mocks := testServices{
		auth:      mock.NewMockAuthService(ctrl),
		tasks:     mock.NewMockTaskService(ctrl),
		assistant: mock.NewMockAssistantService(ctrl),
		appInfo:   mock.NewMockAppInfoService(ctrl),
	}
	h := NewHandler(&service.Services{
		AuthService:      mocks.auth,
		TaskService:      mocks.tasks,
		AssistantService: mocks.assistant,
		AppInfoService:   mocks.appInfo,
	}, logger.Nop())

	return h.Init(), mocks
}

// expectToken makes testToken resolve to testUserID.
func (m testServices) expectToken() {
	m.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(testUserID, nil).AnyTimes()
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes the response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// detailError extracts detail.error from a FastAPI style failure body.
func detailError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	detail, ok := decodeBody(t, rec)["detail"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	require.Equal(t, false, detail["success"])
	apiErr, ok := detail["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return apiErr
}

// envelopeError extracts error from a 200 envelope with success=false.
func envelopeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"], rec.Body.String())
	apiErr, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return apiErr
}

func envelopeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"], rec.Body.String())
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return data
}

func newRawRequest(method, target, authorization string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
