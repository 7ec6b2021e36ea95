package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration. Every block is optional;
// SetDefaults fills in whatever the file leaves out.
type Config struct {
	Server  *ServerConfig  `hcl:"server,block"`
	Reload  *ReloadConfig  `hcl:"reload,block"`
	Render  *RenderConfig  `hcl:"render,block"`
	Logging *LoggingConfig `hcl:"logging,block"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Host      string `hcl:"host,optional"`
	Port      int    `hcl:"port,optional"`
	StaticDir string `hcl:"static_dir,optional"`
}

// ReloadConfig holds the long-poll window of the /update endpoint
type ReloadConfig struct {
	TimeoutSeconds int `hcl:"timeout_seconds,optional"`
	PollIntervalMS int `hcl:"poll_interval_ms,optional"`
}

// RenderConfig holds markdown rendering configuration
type RenderConfig struct {
	Stylesheet        string `hcl:"stylesheet,optional"`
	DisableHardBreaks bool   `hcl:"disable_hard_breaks,optional"`
	DisableGFM        bool   `hcl:"disable_gfm,optional"`
	DisableEmoji      bool   `hcl:"disable_emoji,optional"`
	MaxFileSizeStr    string `hcl:"max_file_size,optional"`
	MaxFileSize       int    // Parsed from MaxFileSizeStr
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `hcl:"level,optional"`
	Output     string `hcl:"output,optional"`
	Format     string `hcl:"format,optional"`
	AccessLog  bool   `hcl:"access_log,optional"`
	AccessPath string `hcl:"access_path,optional"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	// Defaults alone never fail to parse
	_ = cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for optional fields
func (c *Config) SetDefaults() error {
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Reload == nil {
		c.Reload = &ReloadConfig{}
	}
	if c.Render == nil {
		c.Render = &RenderConfig{}
	}
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}

	// Server defaults. An explicit port 0 can only come from an Override,
	// which runs after SetDefaults.
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	// Reload defaults - validation happens in Validate
	if c.Reload.TimeoutSeconds == 0 {
		c.Reload.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Reload.PollIntervalMS == 0 {
		c.Reload.PollIntervalMS = DefaultPollIntervalMS
	}

	// Parse max file size
	if c.Render.MaxFileSizeStr != "" {
		size, err := ParseSize(c.Render.MaxFileSizeStr)
		if err != nil {
			return fmt.Errorf("invalid max_file_size: %w", err)
		}
		c.Render.MaxFileSize = size
	}
	if c.Render.MaxFileSize == 0 {
		c.Render.MaxFileSize = DefaultMaxFileSize
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.AccessLog && c.Logging.AccessPath == "" {
		c.Logging.AccessPath = DefaultAccessPath
	}

	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PollInterval returns the wait between two checks of a long-poll
func (r *ReloadConfig) PollInterval() time.Duration {
	return time.Duration(r.PollIntervalMS) * time.Millisecond
}

// Timeout returns the longest a long-poll blocks
func (r *ReloadConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Iterations returns how many checks fit in the timeout, rounded up so that
// the window is never shorter than configured.
func (r *ReloadConfig) Iterations() int {
	interval := r.PollInterval()
	if interval <= 0 {
		return 0
	}
	timeout := r.Timeout()
	n := int(timeout / interval)
	if timeout%interval != 0 {
		n++
	}
	return n
}
