package config

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoConfigFile is returned by Reload when the manager was built without a file
var ErrNoConfigFile = errors.New("no configuration file to reload")

// Manager manages configuration with hot-reload support
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	overrides  []Override
	callbacks  []func(*Config)
}

// NewManager creates a new configuration manager. An empty configPath means
// defaults only. Overrides are re-applied on every reload.
func NewManager(configPath string, overrides ...Override) (*Manager, error) {
	cfg, err := load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config:     cfg,
		configPath: configPath,
		overrides:  overrides,
		callbacks:  []func(*Config){},
	}, nil
}

func load(configPath string, overrides []Override) (*Config, error) {
	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Get returns the current configuration (read-only)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.config
}

// Reload reloads the configuration from disk
func (m *Manager) Reload() error {
	if m.configPath == "" {
		return ErrNoConfigFile
	}

	newCfg, err := load(m.configPath, m.overrides)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	m.mu.Lock()
	m.config = newCfg
	callbacks := m.callbacks
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(newCfg)
	}

	return nil
}

// OnReload registers a callback to be called when configuration is reloaded
func (m *Manager) OnReload(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}
