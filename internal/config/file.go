// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk layout of the config file. JSON and YAML share
// the same keys.
type FileConfig struct {
	App struct {
		LogLevel string `json:"log_level" yaml:"log_level"`
		LogFile  string `json:"log_file" yaml:"log_file"`
	} `json:"app" yaml:"app"`

	Adapter struct {
		BaseURL        string   `json:"base_url" yaml:"base_url"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" yaml:"adapter"`

	Storage struct {
		Backend     string `json:"backend" yaml:"backend"`
		DSN         string `json:"dsn" yaml:"dsn"`
		SessionFile string `json:"session_file" yaml:"session_file"`
	} `json:"storage" yaml:"storage"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval" yaml:"refresh_interval"`
	} `json:"workers" yaml:"workers"`

	DevServer struct {
		Address       string   `json:"address" yaml:"address"`
		DSN           string   `json:"dsn" yaml:"dsn"`
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
	} `json:"devserver" yaml:"devserver"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFile, ext)
	}

	return fileCfg.structured(), nil
}

func (f FileConfig) structured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: f.App.LogLevel,
			LogFile:  f.App.LogFile,
		},
		Adapter: Adapter{
			BaseURL:        f.Adapter.BaseURL,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
		},
		Storage: Storage{
			Backend:     f.Storage.Backend,
			DSN:         f.Storage.DSN,
			SessionFile: f.Storage.SessionFile,
		},
		Workers: Workers{
			RefreshInterval: time.Duration(f.Workers.RefreshInterval),
		},
		DevServer: DevServer{
			Address:       f.DevServer.Address,
			DSN:           f.DevServer.DSN,
			TokenSignKey:  f.DevServer.TokenSignKey,
			TokenIssuer:   f.DevServer.TokenIssuer,
			TokenDuration: time.Duration(f.DevServer.TokenDuration),
		},
	}
}

// Duration decodes "1h"-style strings or integer nanoseconds from JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration at line %d", node.Line)
	}

	if tmp, err := time.ParseDuration(node.Value); err == nil {
		*d = Duration(tmp)
		return nil
	}

	var ns int64
	if err := node.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration %q at line %d", node.Value, node.Line)
	}
	*d = Duration(ns)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
