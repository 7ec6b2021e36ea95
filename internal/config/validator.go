package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// ValidationFunc is a function that validates a config and returns an error
type ValidationFunc func(*Config) error

// validationRules defines all validation rules to be applied to the configuration
var validationRules = []ValidationFunc{
	validateServerHost,
	validateServerPort,
	validateServerStaticDir,
	validateReloadTimeout,
	validateReloadPollInterval,
	validateRenderStylesheet,
	validateRenderMaxFileSize,
	validateLoggingLevel,
	validateLoggingFormat,
}

// Validate validates the configuration using all validation rules
func (c *Config) Validate() error {
	if c.Server == nil || c.Reload == nil || c.Render == nil || c.Logging == nil {
		return fmt.Errorf("configuration is incomplete, SetDefaults was not applied")
	}
	for _, rule := range validationRules {
		if err := rule(c); err != nil {
			return err
		}
	}
	return nil
}

// Server validation rules
func validateServerHost(c *Config) error {
	if net.ParseIP(c.Server.Host) == nil {
		return fmt.Errorf("server config: host must be an IP address, got '%s'", c.Server.Host)
	}
	return nil
}

func validateServerPort(c *Config) error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server config: port must be between 0 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func validateServerStaticDir(c *Config) error {
	if c.Server.StaticDir == "" {
		return nil
	}
	if err := ensureDirectory(c.Server.StaticDir); err != nil {
		return fmt.Errorf("server config: static_dir: %w", err)
	}
	return nil
}

// Reload validation rules
func validateReloadTimeout(c *Config) error {
	if c.Reload.TimeoutSeconds < 1 {
		return fmt.Errorf("reload config: timeout_seconds must be >= 1, got %d", c.Reload.TimeoutSeconds)
	}
	return nil
}

func validateReloadPollInterval(c *Config) error {
	if c.Reload.PollIntervalMS < 1 {
		return fmt.Errorf("reload config: poll_interval_ms must be >= 1, got %d", c.Reload.PollIntervalMS)
	}
	if c.Reload.PollInterval() > c.Reload.Timeout() {
		return fmt.Errorf("reload config: poll_interval_ms (%d) must not exceed timeout_seconds (%d)",
			c.Reload.PollIntervalMS, c.Reload.TimeoutSeconds)
	}
	return nil
}

// Render validation rules
func validateRenderStylesheet(c *Config) error {
	if c.Render.Stylesheet == "" {
		return nil
	}
	info, err := os.Stat(c.Render.Stylesheet)
	if err != nil {
		return fmt.Errorf("render config: stylesheet: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("render config: stylesheet is not a file: %s", c.Render.Stylesheet)
	}
	return nil
}

func validateRenderMaxFileSize(c *Config) error {
	if c.Render.MaxFileSize <= 0 {
		return fmt.Errorf("render config: max_file_size must be positive, got %s", FormatSize(c.Render.MaxFileSize))
	}
	return nil
}

// Logging validation rules
func validateLoggingLevel(c *Config) error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "error" {
		return fmt.Errorf("logging config: level must be 'debug', 'info', or 'error', got '%s'", level)
	}
	c.Logging.Level = level
	return nil
}

func validateLoggingFormat(c *Config) error {
	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("logging config: format must be 'text' or 'json', got '%s'", format)
	}
	c.Logging.Format = format
	return nil
}

// Helper functions
func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}
