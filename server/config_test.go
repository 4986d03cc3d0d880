package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":3005", cfg.Addr)
	assert.Equal(t, "main", cfg.DefaultScene)
	assert.Equal(t, float64(DefaultSpawnX), cfg.SpawnX)
	assert.Equal(t, 25*time.Second, cfg.PingInterval)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":9000\"\ndefault_scene: lobby\nsend_buffer: 16\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "lobby", cfg.DefaultScene)
	assert.Equal(t, 16, cfg.SendBuffer)
	// 未覆盖的字段保持默认值
	assert.Equal(t, "anonymous", cfg.DefaultNickname)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero send buffer", func(c *Config) { c.SendBuffer = 0 }},
		{"zero command buffer", func(c *Config) { c.CommandBuffer = 0 }},
		{"zero read limit", func(c *Config) { c.ReadLimit = 0 }},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"ping not shorter than read timeout", func(c *Config) { c.PingInterval = c.ReadTimeout }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
