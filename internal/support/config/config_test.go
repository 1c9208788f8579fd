package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf, rest, err := Resolve([]string{"lookup", "alice"})
		require.NoError(t, err)

		assert.Equal(t, "dev", conf.EnvName)
		assert.Equal(t, BackendRedis, conf.StoreBackend)
		assert.Equal(t, 10, conf.HashCost)
		assert.Equal(t, []string{"lookup", "alice"}, rest)
	})

	t.Run("flags", func(t *testing.T) {
		conf, rest, err := Resolve([]string{"-env", "prod", "-store", "memory", "-cost", "12", "register"})
		require.NoError(t, err)

		assert.Equal(t, "prod", conf.EnvName)
		assert.Equal(t, BackendMemory, conf.StoreBackend)
		assert.Equal(t, 12, conf.HashCost)
		assert.Equal(t, []string{"register"}, rest)
	})

	t.Run("env overrides flags", func(t *testing.T) {
		t.Setenv("ENV_NAME", "staging")
		t.Setenv("STORE_TIMEOUT", "250ms")

		conf, _, err := Resolve([]string{"-env", "prod"})
		require.NoError(t, err)

		assert.Equal(t, "staging", conf.EnvName)
		assert.Equal(t, 250*time.Millisecond, conf.StoreTimeout)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		_, _, err := Resolve([]string{"-store", "postgres"})
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := Resolve([]string{"-nope"})
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "default", modify: func(c *Config) {}},
		{name: "memory", modify: func(c *Config) { c.StoreBackend = BackendMemory; c.RedisAddress = "" }},
		{name: "redis hostname", modify: func(c *Config) { c.RedisAddress = "redis:6379" }},
		{name: "postgres with dsn", modify: func(c *Config) { c.StoreBackend = BackendPostgres; c.DatabaseDSN = "postgres://localhost/db" }},
		{name: "empty env", modify: func(c *Config) { c.EnvName = "" }, wantErr: true},
		{name: "unknown backend", modify: func(c *Config) { c.StoreBackend = "dynamo" }, wantErr: true},
		{name: "redis without port", modify: func(c *Config) { c.RedisAddress = "localhost" }, wantErr: true},
		{name: "redis bad port", modify: func(c *Config) { c.RedisAddress = "localhost:99999" }, wantErr: true},
		{name: "cost too low", modify: func(c *Config) { c.HashCost = 1 }, wantErr: true},
		{name: "cost too high", modify: func(c *Config) { c.HashCost = 40 }, wantErr: true},
		{name: "zero store timeout", modify: func(c *Config) { c.StoreTimeout = 0 }, wantErr: true},
		{name: "zero workers", modify: func(c *Config) { c.HashWorkers = 0 }, wantErr: true},
		{name: "zero min password length", modify: func(c *Config) { c.MinPasswordLength = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.modify(conf)

			err := Validate(conf)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
