package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClientConfig() *ClientConfig {
	return &ClientConfig{
		App:     defaults.App,
		Adapter: defaults.Adapter,
		Storage: defaults.Storage,
	}
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		want   error
	}{
		{name: "defaults", mutate: func(*ClientConfig) {}},
		{name: "bad log level", mutate: func(c *ClientConfig) { c.App.LogLevel = "loud" }, want: ErrInvalidAppConfigs},
		{name: "no scheme", mutate: func(c *ClientConfig) { c.Adapter.BaseURL = "localhost:8000" }, want: ErrInvalidAdapterConfigs},
		{name: "zero timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, want: ErrInvalidAdapterConfigs},
		{name: "unknown backend", mutate: func(c *ClientConfig) { c.Storage.Backend = "redis" }, want: ErrInvalidStorageConfigs},
		{name: "sqlite without dsn", mutate: func(c *ClientConfig) { c.Storage.DSN = "" }, want: ErrInvalidStorageConfigs},
		{name: "file without path", mutate: func(c *ClientConfig) {
			c.Storage.Backend = StorageBackendFile
			c.Storage.SessionFile = ""
		}, want: ErrInvalidStorageConfigs},
		{name: "negative interval", mutate: func(c *ClientConfig) { c.Workers.RefreshInterval = -time.Second }, want: ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewDevServerConfig_GeneratesSignKey(t *testing.T) {
	cfg, err := newDevServerConfig(&defaults)
	require.NoError(t, err)

	assert.True(t, cfg.GeneratedSignKey)
	assert.Len(t, cfg.TokenSignKey, 64)
	assert.Equal(t, "localhost:8000", cfg.Address)
	assert.Contains(t, cfg.DSN, "mode=memory")
}

func TestNewDevServerConfig_Invalid(t *testing.T) {
	src := defaults
	src.DevServer.Address = "nowhere"
	_, err := newDevServerConfig(&src)
	assert.ErrorIs(t, err, ErrInvalidDevServerConfigs)

	src = defaults
	src.DevServer.DSN = ""
	_, err = newDevServerConfig(&src)
	assert.ErrorIs(t, err, ErrInvalidDevServerConfigs)

	src = defaults
	src.DevServer.TokenDuration = 0
	_, err = newDevServerConfig(&src)
	assert.ErrorIs(t, err, ErrInvalidDevServerConfigs)
}
