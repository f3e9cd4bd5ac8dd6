// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	envVars := map[string]string{
		"CONFIG": "/path/to/config.yaml",

		"APP_LOG_LEVEL": "warn",
		"APP_LOG_FILE":  "/var/log/tk.log",

		"ADAPTER_BASE_URL":        "http://localhost:8000",
		"ADAPTER_REQUEST_TIMEOUT": "5s",

		"STORAGE_BACKEND":      "file",
		"STORAGE_DSN":          "tk.db",
		"STORAGE_SESSION_FILE": "session.json",

		"WORKERS_REFRESH_INTERVAL": "1m",

		"DEVSERVER_ADDRESS":        "127.0.0.1:8000",
		"DEVSERVER_DSN":            "dev.db",
		"DEVSERVER_TOKEN_SIGN_KEY": "secret",
		"DEVSERVER_TOKEN_ISSUER":   "issuer",
		"DEVSERVER_TOKEN_DURATION": "2h",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/path/to/config.yaml", cfg.ConfigFilePath)
	assert.Equal(t, App{LogLevel: "warn", LogFile: "/var/log/tk.log"}, cfg.App)
	assert.Equal(t, Adapter{BaseURL: "http://localhost:8000", RequestTimeout: 5 * time.Second}, cfg.Adapter)
	assert.Equal(t, Storage{Backend: "file", DSN: "tk.db", SessionFile: "session.json"}, cfg.Storage)
	assert.Equal(t, time.Minute, cfg.Workers.RefreshInterval)
	assert.Equal(t, DevServer{
		Address:       "127.0.0.1:8000",
		DSN:           "dev.db",
		TokenSignKey:  "secret",
		TokenIssuer:   "issuer",
		TokenDuration: 2 * time.Hour,
	}, cfg.DevServer)
}

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}
