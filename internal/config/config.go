// Package config is egraft's unified configuration: a YAML file with
// environment-variable overrides, producing the egraft.RunConfig a
// Runner actually runs with. Grounded on the teacher's
// internal/config/config.go (DefaultConfig, yaml.v3-backed Manager.Load)
// and loader.go (tag-driven env overrides), trimmed to the runner/
// logging/feature-flag surface this engine needs — the Vault/AWS/
// performance-tuning sections have no analog here (see DESIGN.md).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wayneeseguin/egraft/pkg/egraft"
)

// Config is the full on-disk/environment configuration document.
type Config struct {
	Runner   RunnerConfig    `yaml:"runner" json:"runner"`
	Logging  LoggingConfig   `yaml:"logging" json:"logging"`
	Features map[string]bool `yaml:"features" json:"features"`
	Version  string          `yaml:"version" json:"version"`
}

// RunnerConfig mirrors egraft.RunConfig's fields plus the scheduler
// selection needed to build one.
type RunnerConfig struct {
	IterLimit int           `yaml:"iter_limit" json:"iter_limit" env:"EGRAFT_ITER_LIMIT"`
	NodeLimit int           `yaml:"node_limit" json:"node_limit" env:"EGRAFT_NODE_LIMIT"`
	TimeLimit time.Duration `yaml:"time_limit" json:"time_limit" env:"EGRAFT_TIME_LIMIT"`
	Scheduler string        `yaml:"scheduler" json:"scheduler" env:"EGRAFT_SCHEDULER"` // "simple" or "backoff"
	Backoff   BackoffConfig `yaml:"backoff" json:"backoff"`
}

// BackoffConfig tunes egraft.BackoffScheduler.
type BackoffConfig struct {
	Threshold  int `yaml:"threshold" json:"threshold" env:"EGRAFT_BACKOFF_THRESHOLD"`
	InitialBan int `yaml:"initial_ban" json:"initial_ban" env:"EGRAFT_BACKOFF_INITIAL_BAN"`
}

// LoggingConfig controls internal/elog's verbosity and color output.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" env:"EGRAFT_LOG_LEVEL"` // "warn", "debug", "trace"
	EnableColor bool   `yaml:"enable_color" json:"enable_color" env:"EGRAFT_LOG_COLOR"`
}

// Manager owns the active configuration, reloading it from disk and
// notifying registered hooks on change — grounded on the teacher's
// Manager (internal/config/config.go), with profile support dropped.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
}

// NewManager creates a Manager holding the default configuration.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// DefaultConfig mirrors the teacher's DefaultConfig: an explicit literal
// matching egraft.DefaultRunConfig's values rather than zero values.
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{
			IterLimit: 30,
			NodeLimit: 10_000,
			TimeLimit: 5 * time.Second,
			Scheduler: "backoff",
			Backoff: BackoffConfig{
				Threshold:  1000,
				InitialBan: 5,
			},
		},
		Logging: LoggingConfig{
			Level:       "warn",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
	}
}

// Load reads path as YAML over a DefaultConfig base, applies
// environment overrides, validates, and installs the result.
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

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
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
	cfg := *m.config
	return &cfg
}

// OnChange registers a callback invoked (in its own goroutine) whenever
// Load installs a new configuration.
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

func (m *Manager) notifyChangeHooks(cfg *Config) {
	for _, hook := range m.changeHooks {
		go hook(cfg)
	}
}

// ToRunConfig builds the egraft.RunConfig this configuration describes.
func (c *Config) ToRunConfig() egraft.RunConfig {
	var sched egraft.Scheduler
	if c.Runner.Scheduler == "simple" {
		sched = egraft.SimpleScheduler{}
	} else {
		b := egraft.NewBackoffScheduler()
		if c.Runner.Backoff.Threshold > 0 {
			b.Threshold = c.Runner.Backoff.Threshold
		}
		if c.Runner.Backoff.InitialBan > 0 {
			b.InitialBan = c.Runner.Backoff.InitialBan
		}
		sched = b
	}
	return egraft.RunConfig{
		IterLimit: c.Runner.IterLimit,
		NodeLimit: c.Runner.NodeLimit,
		TimeLimit: c.Runner.TimeLimit,
		Scheduler: sched,
	}
}

// expandPath expands a leading ~ and any $VARS in path.
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
