// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"

	"github.com/rs/zerolog"
)

func (cfg *ClientConfig) validate() error {
	if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
		return ErrInvalidAppConfigs
	}

	u, err := url.Parse(cfg.Adapter.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Storage.Backend {
	case StorageBackendSQLite:
		if cfg.Storage.DSN == "" {
			return ErrInvalidStorageConfigs
		}
	case StorageBackendFile:
		if cfg.Storage.SessionFile == "" {
			return ErrInvalidStorageConfigs
		}
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.RefreshInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *DevServerConfig) validate() error {
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidAppConfigs
	}

	var addr NetAddress
	if err := addr.Set(cfg.Address); err != nil {
		return ErrInvalidDevServerConfigs
	}

	if cfg.DSN == "" || cfg.TokenSignKey == "" || cfg.TokenIssuer == "" || cfg.TokenDuration <= 0 {
		return ErrInvalidDevServerConfigs
	}

	return nil
}
