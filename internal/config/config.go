// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the raw configuration shared by both binaries. Each
// source (environment, flags, file) produces one StructuredConfig; the
// builder merges them and the binaries read a validated view of the result
// through [GetClientConfig] or [GetDevServerConfig].
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: variable name of a scalar field.
type StructuredConfig struct {
	App       App       `envPrefix:"APP_"`
	Adapter   Adapter   `envPrefix:"ADAPTER_"`
	Storage   Storage   `envPrefix:"STORAGE_"`
	Workers   Workers   `envPrefix:"WORKERS_"`
	DevServer DevServer `envPrefix:"DEVSERVER_"`

	// ConfigFilePath points at an optional .json (comments allowed) or
	// .yaml file merged on top of env and flags.
	// Env: CONFIG, flag: -c/--config.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds process-wide settings.
type App struct {
	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is where the client writes its log. The client owns the
	// terminal, so logs never go to stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Adapter holds the outbound transport settings of the client.
type Adapter struct {
	// BaseURL is the root of the remote task service, e.g. "http://localhost:8000".
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single request. Requests are never retried.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage selects where the client persists its session.
type Storage struct {
	// Backend is "sqlite" or "file".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DSN is the SQLite database path used by the sqlite backend.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`

	// SessionFile is the JSON document used by the file backend.
	// Env: STORAGE_SESSION_FILE
	SessionFile string `env:"SESSION_FILE"`
}

// Workers holds background job settings of the client.
type Workers struct {
	// RefreshInterval is the period of the background task refresh.
	// Zero disables the job.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// DevServer holds settings of the in-memory development server.
type DevServer struct {
	// Address is the listen address in "host:port" form.
	// Env: DEVSERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// DSN is the SQLite database holding users, tasks and conversations.
	// Env: DEVSERVER_DSN
	DSN string `env:"DSN"`

	// TokenSignKey signs issued JWTs. A random key is generated when empty.
	// Env: DEVSERVER_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// Env: DEVSERVER_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Env: DEVSERVER_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Storage backends.
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendFile   = "file"
)

// defaults fills every field left zero by all sources.
var defaults = StructuredConfig{
	App: App{LogLevel: "info"},
	Adapter: Adapter{
		BaseURL:        "http://localhost:8000",
		RequestTimeout: 10 * time.Second,
	},
	Storage: Storage{
		Backend:     StorageBackendSQLite,
		DSN:         "task-keeper.db",
		SessionFile: "session.json",
	},
	DevServer: DevServer{
		Address:       "localhost:8000",
		DSN:           "file:task-keeper-devserver?mode=memory&cache=shared",
		TokenIssuer:   "task-keeper-devserver",
		TokenDuration: 24 * time.Hour,
	},
}

// GetStructuredConfig loads and merges the configuration from the process
// environment, the command-line arguments and the optional config file.
// Later sources override non-zero fields of earlier ones:
//  1. Environment variables
//  2. Command-line flags
//  3. Config file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return loadStructuredConfig(os.Args[1:])
}

func loadStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
