package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds glosa configuration for a single translation run.
type Config struct {
	Input    string `mapstructure:"input" yaml:"input"`       // Source EPUB path
	Output   string `mapstructure:"output" yaml:"output"`     // Destination EPUB path
	Language string `mapstructure:"language" yaml:"language"` // Target language, e.g. "Indonesian"
	Model    string `mapstructure:"model" yaml:"model"`       // Backend model name

	// TokenLimit is the model context budget. Half of it is the chunk
	// ceiling; the rest is headroom for the prompt scaffolding and response.
	TokenLimit int `mapstructure:"token_limit" yaml:"token_limit"`

	Template  string `mapstructure:"template" yaml:"template"` // Prompt template path
	Genre     string `mapstructure:"genre" yaml:"genre"`
	Bilingual bool   `mapstructure:"bilingual" yaml:"bilingual"`

	// Title and Author override the document metadata when non-empty.
	Title  string `mapstructure:"title" yaml:"title"`
	Author string `mapstructure:"author" yaml:"author"`

	Encoding   string        `mapstructure:"encoding" yaml:"encoding"` // Tokenizer encoding name
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`

	Backend BackendCfg `mapstructure:"backend" yaml:"backend"`
}

// BackendCfg configures the translation backend connection.
type BackendCfg struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"` // OpenAI-compatible endpoint
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`   // Per-request timeout
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:      "llama3.2",
		TokenLimit: 512,
		Genre:      "General",
		Encoding:   "cl100k_base",
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		Backend: BackendCfg{
			BaseURL: "http://localhost:11434/v1",
			APIKey:  "${GLOSA_API_KEY}",
			Timeout: 5 * time.Minute,
		},
	}
}

// Load reads configuration from cfgFile (or the default search paths),
// GLOSA_-prefixed environment variables, and the built-in defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("model", defaults.Model)
	v.SetDefault("token_limit", defaults.TokenLimit)
	v.SetDefault("genre", defaults.Genre)
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("retry_delay", defaults.RetryDelay)
	v.SetDefault("backend.base_url", defaults.Backend.BaseURL)
	v.SetDefault("backend.api_key", defaults.Backend.APIKey)
	v.SetDefault("backend.timeout", defaults.Backend.Timeout)

	// Environment variables with GLOSA_ prefix
	v.SetEnvPrefix("GLOSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.glosa")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every field required to start a run is present.
func (c *Config) Validate() error {
	var missing []string
	if c.Input == "" {
		missing = append(missing, "input")
	}
	if c.Output == "" {
		missing = append(missing, "output")
	}
	if c.Language == "" {
		missing = append(missing, "language")
	}
	if c.Model == "" {
		missing = append(missing, "model")
	}
	if c.Template == "" {
		missing = append(missing, "template")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.TokenLimit <= 0 {
		return fmt.Errorf("token_limit must be positive, got %d", c.TokenLimit)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	return nil
}

// ChunkBudget returns the per-chunk token ceiling: half the model limit.
func (c *Config) ChunkBudget() int {
	return c.TokenLimit / 2
}

// ResolveAPIKey returns the backend API key with any ${ENV_VAR} reference expanded.
func (c *Config) ResolveAPIKey() string {
	return ResolveEnvVars(c.Backend.APIKey)
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
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

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Glosa configuration
# The API key uses ${ENV_VAR} syntax to reference an environment variable.
# Local Ollama servers ignore the key; hosted APIs require it:
# export GLOSA_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
