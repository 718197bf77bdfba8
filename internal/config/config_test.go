package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		GinMode:         "debug",
		DBDriver:        "sqlite",
		DBPath:          "board.db",
		SessionBackend:  "sql",
		SessionSecret:   "secret",
		SessionTTL:      time.Hour,
		BcryptCost:      12,
		FeedConcurrency: 4,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "sql", cfg.SessionBackend)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("FEED_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2, cfg.FeedConcurrency)
}

func TestLoad_RejectsDefaultSecretInRelease(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GIN_MODE", "release")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: true},
		{name: "mysql without host", mutate: func(c *Config) { c.DBDriver = "mysql"; c.DBHost = "" }, wantErr: true},
		{name: "unknown session backend", mutate: func(c *Config) { c.SessionBackend = "memcached" }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 2 }, wantErr: true},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.BcryptCost = 40 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.FeedConcurrency = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
