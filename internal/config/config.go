// Package config loads inkwell configuration from file, environment,
// and defaults, with hot reload on file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inkwell-app/inkwell/internal/providers"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" yaml:"scheduler"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Providers  ProvidersConfig  `mapstructure:"providers" yaml:"providers"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// SchedulerConfig holds the task scheduler settings.
type SchedulerConfig struct {
	// ConcurrencyLimit caps the number of tracks generating at once.
	ConcurrencyLimit int `mapstructure:"concurrency_limit" yaml:"concurrency_limit"`
}

// GenerationConfig holds chunk-planning and prompt settings.
type GenerationConfig struct {
	LinesPerChunk  int    `mapstructure:"lines_per_chunk" yaml:"lines_per_chunk"`
	ScenesPerChunk int    `mapstructure:"scenes_per_chunk" yaml:"scenes_per_chunk"`
	TargetLanguage string `mapstructure:"target_language" yaml:"target_language"`
}

// ProvidersConfig holds external provider settings.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai" yaml:"openai"`
	Video  VideoConfig  `mapstructure:"video" yaml:"video"`
}

// OpenAIConfig configures the OpenAI chat/image provider.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	ChatModel  string `mapstructure:"chat_model" yaml:"chat_model"`
	ImageModel string `mapstructure:"image_model" yaml:"image_model"`
	ImageSize  string `mapstructure:"image_size" yaml:"image_size"`
	RateLimit  int    `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// VideoConfig configures the image-to-video provider.
type VideoConfig struct {
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	RateLimit   int    `mapstructure:"rate_limit" yaml:"rate_limit"`
	PollSeconds int    `mapstructure:"poll_seconds" yaml:"poll_seconds"`
}

// ResolveEnvVars replaces ${ENV_VAR} references with environment values.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToRegistryConfig maps provider settings onto the registry's reload input.
// It resolves ${ENV_VAR} references in API keys.
func (c *Config) ToRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{}
	if c.Providers.OpenAI.APIKey != "" {
		cfg.OpenAI = &providers.OpenAIConfig{
			APIKey:     ResolveEnvVars(c.Providers.OpenAI.APIKey),
			ChatModel:  c.Providers.OpenAI.ChatModel,
			ImageModel: c.Providers.OpenAI.ImageModel,
			ImageSize:  c.Providers.OpenAI.ImageSize,
			RateLimit:  c.Providers.OpenAI.RateLimit,
		}
	}
	if c.Providers.Video.BaseURL != "" {
		cfg.Video = &providers.HTTPVideoConfig{
			BaseURL:      c.Providers.Video.BaseURL,
			APIKey:       ResolveEnvVars(c.Providers.Video.APIKey),
			RateLimit:    c.Providers.Video.RateLimit,
			PollInterval: time.Duration(c.Providers.Video.PollSeconds) * time.Second,
		}
	}
	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Inkwell configuration
# API keys may reference environment variables with ${ENV_VAR} syntax
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("server", defaults.Server)
	viper.SetDefault("scheduler", defaults.Scheduler)
	viper.SetDefault("generation", defaults.Generation)
	viper.SetDefault("providers", defaults.Providers)

	// Environment variables with INKWELL_ prefix
	viper.SetEnvPrefix("INKWELL")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.inkwell")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}
