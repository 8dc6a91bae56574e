package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aryankumar/topk/internal/util"
)

const (
	defaultConfigName = ".topk"
	envPrefix         = "TOPK"
)

// keys are the settings viper resolves, named as their flags
var keys = []string{
	"k", "shards", "workers", "output", "timeout",
	"shard-dir", "keep-shards", "no-color", "verbose", "metrics",
}

// Manager handles topk configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager.
// An empty configPath searches the working and home directories for
// .topk.yaml.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// BindFlags lets flags set on the command line override the file and
// environment. Unchanged flags only act as defaults.
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := m.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", key, err)
		}
	}
	return nil
}

// Load resolves the configuration from defaults, file, environment and flags
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		m.viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			m.viper.AddConfigPath(home)
		}
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// TOPK_SHARD_DIR maps to shard-dir
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range keys {
		if err := m.viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %q: %w", key, err)
		}
	}

	m.config = &Config{}
	if err := defaults.Set(m.config); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return m.config, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Save writes the current configuration to path, or to the manager's
// config path when path is empty.
func (m *Manager) Save(path string) error {
	if path == "" {
		path = m.configPath
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, defaultConfigName+".yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := viper.New()
	out.Set("k", m.config.K)
	out.Set("shards", m.config.Shards)
	out.Set("workers", m.config.Workers)
	out.Set("output", m.config.Output)
	out.Set("timeout", m.config.Timeout.String())
	out.Set("shard-dir", m.config.ShardDir)
	out.Set("keep-shards", m.config.KeepShards)
	out.Set("no-color", m.config.NoColor)
	out.Set("verbose", m.config.Verbose)
	out.Set("metrics", m.config.Metrics)

	if err := out.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	errs := &util.MultiError{}

	if c.K < 0 {
		errs.Add(util.NewValidationError("k", c.K, "must not be negative"))
	}
	if c.Shards < 1 {
		errs.Add(util.NewValidationError("shards", c.Shards, "must be at least 1"))
	}
	if c.Workers < 1 {
		errs.Add(util.NewValidationError("workers", c.Workers, "must be at least 1"))
	}
	if !slices.Contains(OutputFormats, c.Output) {
		errs.Add(util.NewValidationError("output", c.Output,
			fmt.Sprintf("must be one of %s", strings.Join(OutputFormats, ", "))))
	}
	if c.Timeout < 0 {
		errs.Add(util.NewValidationError("timeout", c.Timeout, "must not be negative"))
	}

	return errs.ErrorOrNil()
}
