package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	OpenAI      OpenAIConfig
	Server      ServerConfig
	Remediation RemediationConfig
	Logging     LoggingConfig
}

// OpenAIConfig holds configuration for the OpenAI-compatible completion endpoint
type OpenAIConfig struct {
	// Authentication and connection
	APIKey  string // API key (required, process refuses to start without it)
	BaseURL string // API base URL

	// Model settings
	Model string // Model identifier to use

	// Request settings
	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure (0 = single attempt)

	// Generation parameters
	MaxTokens int // Max tokens to generate for responses

	// Rate limiting (0 = unlimited)
	RequestsPerMinute int
	BurstLimit        int
}

// ServerConfig holds configuration for the inbound HTTP server
type ServerConfig struct {
	Host            string        // Listen address
	Port            int           // Listen port
	ReadTimeout     time.Duration // Max duration for reading a request
	WriteTimeout    time.Duration // Max duration for writing a response
	ShutdownTimeout time.Duration // Drain timeout on graceful shutdown
}

// RemediationConfig holds configuration for the remediation pipeline
type RemediationConfig struct {
	PromptStyle string // Named prompt template to use
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		OpenAI:      OpenAIConfig{},
		Server:      ServerConfig{},
		Remediation: RemediationConfig{},
		Logging:     LoggingConfig{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateOpenAI(); err != nil {
		return fmt.Errorf("OpenAI config: %w", err)
	}

	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.OpenAI.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if c.OpenAI.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.OpenAI.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	// Validate logging level
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate format
	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
