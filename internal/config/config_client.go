// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ClientConfig is the validated configuration of the terminal client.
type ClientConfig struct {
	App     App
	Adapter Adapter
	Storage Storage
	Workers Workers
}

// GetClientConfig loads the merged configuration and returns the client view.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}
	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
	}
	return clientCfg, clientCfg.validate()
}

// DevServerConfig is the validated configuration of the development server.
type DevServerConfig struct {
	LogLevel      string
	Address       string
	DSN           string
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration

	// GeneratedSignKey reports that TokenSignKey was generated at startup,
	// so tokens do not survive a restart.
	GeneratedSignKey bool
}

// GetDevServerConfig loads the merged configuration and returns the
// development server view.
func GetDevServerConfig() (*DevServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}
	return newDevServerConfig(cfg)
}

func newDevServerConfig(cfg *StructuredConfig) (*DevServerConfig, error) {
	devCfg := &DevServerConfig{
		LogLevel:      cfg.App.LogLevel,
		Address:       cfg.DevServer.Address,
		DSN:           cfg.DevServer.DSN,
		TokenSignKey:  cfg.DevServer.TokenSignKey,
		TokenIssuer:   cfg.DevServer.TokenIssuer,
		TokenDuration: cfg.DevServer.TokenDuration,
	}

	if devCfg.TokenSignKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, fmt.Errorf("error generating token sign key: %w", err)
		}
		devCfg.TokenSignKey = key
		devCfg.GeneratedSignKey = true
	}

	return devCfg, devCfg.validate()
}

func randomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
