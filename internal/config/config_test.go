package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: "default",
			expected:     "default",
		},
		{
			name:         "env set, return env value",
			envValue:     "custom",
			defaultValue: "default",
			expected:     "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_STRING_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvString(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 90 * time.Second,
			expected:     90 * time.Second,
		},
		{
			name:         "env set to valid duration",
			envValue:     "2m",
			defaultValue: 90 * time.Second,
			expected:     2 * time.Minute,
		},
		{
			name:         "env set to invalid value, return default",
			envValue:     "ninety",
			defaultValue: 90 * time.Second,
			expected:     90 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			result := getEnvDuration(key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestLoadFromEnvRequiresAPIKey(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")
	os.Unsetenv("REMEDIATOR_OPENAI_API_KEY")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLoadFromEnvDefaults(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4.1-nano", cfg.OpenAI.Model)
	assert.Equal(t, 90*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 0, cfg.OpenAI.MaxRetries)
	assert.Equal(t, 2048, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "select-single", cfg.Remediation.PromptStyle)
}

func TestLoadFromEnvPrefixedOverridesBare(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "bare-key")
	os.Setenv("REMEDIATOR_OPENAI_API_KEY", "prefixed-key")
	os.Setenv("REMEDIATOR_OPENAI_MODEL", "gpt-4o-mini")
	defer func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("REMEDIATOR_OPENAI_API_KEY")
		os.Unsetenv("REMEDIATOR_OPENAI_MODEL")
	}()

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "prefixed-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OpenAI: OpenAIConfig{
				APIKey:    "key",
				BaseURL:   "https://api.openai.com/v1",
				Model:     "gpt-4.1-nano",
				Timeout:   90 * time.Second,
				MaxTokens: 2048,
			},
			Server: ServerConfig{
				Host:            "0.0.0.0",
				Port:            8000,
				ShutdownTimeout: 10 * time.Second,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})
}

func TestListenAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr())
}
