// Package config provides a unified configuration system for collex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the complete collex engine configuration.
type Config struct {
	// Engine configuration
	Engine EngineConfig `yaml:"engine" json:"engine"`

	// Performance configuration
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Feature flags
	Features map[string]bool `yaml:"features" json:"features"`

	// Metadata
	Version string `yaml:"version" json:"version"`
	Profile string `yaml:"profile" json:"profile"`
}

// EngineConfig contains core CollectionController/SlotManager settings.
type EngineConfig struct {
	// CoalesceNotifications is loaded and exposed to host applications;
	// CollectionController does not read it and notifies once per rebuild
	// regardless. See DESIGN.md's open-question resolution.
	CoalesceNotifications bool `yaml:"coalesce_notifications" json:"coalesce_notifications" default:"false"`

	// DefaultGroupOrder is an informational tie-break order. collex itself
	// does not read it: NewSingleGroupOption and NewMultiGroupOption always
	// take an explicit order.
	DefaultGroupOrder int `yaml:"default_group_order" json:"default_group_order" default:"0"`

	// SlotHeaderFirst mirrors the canonical flattening order (group
	// headers emitted before direct items). Kept configurable only so a
	// host application can confirm it is relying on documented behavior,
	// not to silently change the contract.
	SlotHeaderFirst bool `yaml:"slot_header_first" json:"slot_header_first" default:"true"`

	// Pagination tunables.
	Pagination PaginationConfig `yaml:"pagination" json:"pagination"`
}

// PaginationConfig contains PaginationState defaults.
type PaginationConfig struct {
	DefaultPageSizeHint int `yaml:"default_page_size_hint" json:"default_page_size_hint" env:"COLLEX_PAGE_SIZE_HINT" default:"50"`
	MaxRetries          int `yaml:"max_retries" json:"max_retries" default:"3"`
}

// PerformanceConfig contains performance tuning settings.
type PerformanceConfig struct {
	EnableSlotMemoization bool `yaml:"enable_slot_memoization" json:"enable_slot_memoization" default:"true"`

	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
}

// ConcurrencyConfig documents the single-threaded-cooperative guarantee the
// engine assumes; the only knob is whether callers are allowed to assert it
// at runtime.
type ConcurrencyConfig struct {
	AssertSingleThreaded bool `yaml:"assert_single_threaded" json:"assert_single_threaded" default:"false"`
}

// LoggingConfig contains logging settings consumed by internal/logging.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" default:"info" env:"COLLEX_LOG_LEVEL"`
	EnableColor bool   `yaml:"enable_color" json:"enable_color" default:"true"`
}

// Manager manages configuration loading and hot updates.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
}

// NewManager creates a new configuration manager seeded with defaults.
func NewManager() *Manager {
	return &Manager{
		config:      DefaultConfig(),
		changeHooks: make([]func(*Config), 0),
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CoalesceNotifications: false,
			SlotHeaderFirst:       true,
			Pagination: PaginationConfig{
				DefaultPageSizeHint: 50,
				MaxRetries:          3,
			},
		},
		Performance: PerformanceConfig{
			EnableSlotMemoization: true,
			Concurrency: ConcurrencyConfig{
				AssertSingleThreaded: false,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
		Profile:  "default",
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides on top of it.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := NewLoader().LoadFromEnvironment(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}

	m.config = cfg
	m.configPath = expandedPath
	m.notifyChangeHooks(cfg)

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfgCopy := *m.config
	return &cfgCopy
}

// Update applies updateFunc to a copy of the configuration and swaps it in.
func (m *Manager) Update(updateFunc func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfgCopy := *m.config
	updateFunc(&cfgCopy)
	m.config = &cfgCopy
	m.notifyChangeHooks(&cfgCopy)
}

// OnChange registers a callback invoked after every Load/Update.
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

func (m *Manager) notifyChangeHooks(cfg *Config) {
	for _, hook := range m.changeHooks {
		hook(cfg)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}

	return os.ExpandEnv(path), nil
}
