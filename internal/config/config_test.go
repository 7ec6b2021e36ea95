package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromString(t *testing.T) {
	hclContent := `
server {
  host = "0.0.0.0"
  port = 9000
}

reload {
  timeout_seconds = 30
  poll_interval_ms = 500
}

render {
  disable_emoji = true
  max_file_size = "2MB"
}

logging {
  level = "debug"
  output = "stderr"
  format = "json"
  access_log = true
  access_path = "/tmp/access.log"
}
`

	cfg, err := LoadFromString("test.hcl", hclContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())

	assert.Equal(t, 30, cfg.Reload.TimeoutSeconds)
	assert.Equal(t, 500, cfg.Reload.PollIntervalMS)
	assert.Equal(t, 500*time.Millisecond, cfg.Reload.PollInterval())
	assert.Equal(t, 60, cfg.Reload.Iterations())

	assert.True(t, cfg.Render.DisableEmoji)
	assert.False(t, cfg.Render.DisableHardBreaks)
	assert.False(t, cfg.Render.DisableGFM)
	assert.Equal(t, 2*1000*1000, cfg.Render.MaxFileSize)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.AccessLog)
	assert.Equal(t, "/tmp/access.log", cfg.Logging.AccessPath)
}

func TestLoadFromString_Empty(t *testing.T) {
	cfg, err := LoadFromString("empty.hcl", "")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8000", cfg.Address())
	assert.Empty(t, cfg.Server.StaticDir)

	// 60 checks one second apart
	assert.Equal(t, 60, cfg.Reload.Iterations())
	assert.Equal(t, time.Second, cfg.Reload.PollInterval())
	assert.Equal(t, time.Minute, cfg.Reload.Timeout())

	assert.Equal(t, DefaultMaxFileSize, cfg.Render.MaxFileSize)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Logging.AccessLog)
}

func TestSetDefaults_AccessPath(t *testing.T) {
	cfg := &Config{
		Logging: &LoggingConfig{
			AccessLog: true,
		},
	}

	err := cfg.SetDefaults()
	assert.NoError(t, err)

	assert.Equal(t, DefaultAccessPath, cfg.Logging.AccessPath)
}

func TestSetDefaults_InvalidMaxFileSize(t *testing.T) {
	cfg := &Config{
		Render: &RenderConfig{
			MaxFileSizeStr: "lots",
		},
	}

	err := cfg.SetDefaults()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid max_file_size")
}

func TestReloadConfig_Iterations(t *testing.T) {
	tests := []struct {
		name     string
		timeout  int
		interval int
		expected int
	}{
		{"reference window", 60, 1000, 60},
		{"half second cadence", 60, 500, 120},
		{"rounds up", 1, 300, 4},
		{"single check", 1, 1000, 1},
		{"zero interval", 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ReloadConfig{TimeoutSeconds: tt.timeout, PollIntervalMS: tt.interval}
			assert.Equal(t, tt.expected, r.Iterations())
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.hcl")

	hclContent := `
server {
  port = 8080
}
`

	err := os.WriteFile(configPath, []byte(hclContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.hcl")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoad_InvalidHCL(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.hcl")

	err := os.WriteFile(configPath, []byte("invalid { hcl syntax"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse configuration")
}

func TestLoad_UnknownBlock(t *testing.T) {
	cfg, err := LoadFromString("test.hcl", `vault { key_name = "x" }`)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault("/nonexistent/config.hcl")
	assert.Error(t, err)
}
