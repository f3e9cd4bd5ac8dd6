// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type httpGateway struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	creds CredentialSource

	now    func() time.Time
	logger *logger.Logger
}

// NewHTTPGateway returns a [Gateway] rooted at cfg.BaseURL. The base URL may
// omit the scheme, in which case http is assumed.
func NewHTTPGateway(cfg config.Adapter, log *logger.Logger) (Gateway, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	return &httpGateway{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		now:    time.Now,
		logger: log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (g *httpGateway) SetCredentialSource(src CredentialSource) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creds = src
}

func (g *httpGateway) credentials() CredentialSource {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.creds
}

// Send implements [Gateway].
func (g *httpGateway) Send(ctx context.Context, method, path string, query url.Values, body any) models.Envelope {
	log := g.logger.With().Str("func", "httpGateway.Send").Str("method", method).Str("path", path).Logger()

	creds := g.credentials()
	token := ""
	if creds != nil {
		token = creds.Token()
	}

	if token != "" && utils.IsTokenExpired(token, g.now()) {
		log.Debug().Msg("credential expired, request not sent")
		creds.Invalidate(token)
		return models.Envelope{
			Success: false,
			Status:  http.StatusUnauthorized,
			Error: &models.APIError{
				Code:    app.CodeTokenExpired,
				Message: app.MsgTokenExpired,
				Status:  http.StatusUnauthorized,
				Kind:    ErrUnauthorized,
			},
		}
	}

	req := g.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		log.Warn().Err(err).Msg("request failed")
		return networkEnvelope(app.MsgNetwork, err)
	}

	env := normalize(resp.StatusCode(), resp.Body())
	if env.Success {
		log.Debug().Int("status", env.Status).Msg("request succeeded")
		return env
	}

	env.Error.Status = env.Status
	env.Error.Kind = classify(env.Status, env.Error.Code)

	if token != "" && credentialRejected(env) {
		log.Info().Str("code", env.Error.Code).Msg("credential rejected by server")
		creds.Invalidate(token)
	}

	log.Debug().Int("status", env.Status).Str("code", env.Error.Code).Msg("request rejected")
	return env
}

// Decode converts an envelope into its typed payload. A failed envelope is
// returned as its *models.APIError.
func Decode[T any](env models.Envelope) (T, error) {
	var out T
	if !env.Success {
		if env.Error == nil {
			return out, &models.APIError{
				Code:    app.CodeNetwork,
				Message: app.MsgUnexpectedResponse,
				Status:  env.Status,
				Kind:    ErrRemote,
			}
		}
		return out, env.Error
	}

	data := strings.TrimSpace(string(env.Data))
	if data == "" || data == "null" {
		return out, nil
	}

	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &models.APIError{
			Code:    app.CodeNetwork,
			Message: app.MsgUnexpectedResponse,
			Details: err.Error(),
			Status:  env.Status,
			Kind:    ErrNetwork,
		}
	}
	return out, nil
}

// credentialRejected reports whether a failed response means the bearer
// credential is no longer valid. A failed login or registration made while
// signed in leaves the live credential alone.
func credentialRejected(env models.Envelope) bool {
	if app.IsSignInFailure(env.Error.Code) {
		return false
	}
	return env.Status == http.StatusUnauthorized || app.IsCredentialRejection(env.Error.Code)
}
