package config

import (
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables.
// An optional .env file is loaded first: a custom path via ENV_FILE_PATH,
// falling back to .env in the current directory.
func LoadFromEnv() (*Config, error) {
	cfg := New()

	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, err
		}
	} else {
		_ = godotenv.Load() // Ignore errors if file doesn't exist
	}

	// OpenAI configuration. The bare OPENAI_* names are honored as fallbacks
	// so existing deployments keep working without renaming their variables.
	cfg.OpenAI = OpenAIConfig{
		APIKey:            getEnvString("REMEDIATOR_OPENAI_API_KEY", getEnvString("OPENAI_API_KEY", "")),
		BaseURL:           getEnvString("REMEDIATOR_OPENAI_API_BASE", getEnvString("OPENAI_API_BASE", "https://api.openai.com/v1")),
		Model:             getEnvString("REMEDIATOR_OPENAI_MODEL", getEnvString("OPENAI_MODEL", "gpt-4.1-nano")),
		Timeout:           getEnvDuration("REMEDIATOR_OPENAI_TIMEOUT", 90*time.Second),
		MaxRetries:        getEnvInt("REMEDIATOR_OPENAI_MAX_RETRIES", 0),
		MaxTokens:         getEnvInt("REMEDIATOR_OPENAI_MAX_TOKENS", 2048),
		RequestsPerMinute: getEnvInt("REMEDIATOR_OPENAI_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("REMEDIATOR_OPENAI_BURST_LIMIT", 0),
	}

	// Server configuration
	cfg.Server = ServerConfig{
		Host:            getEnvString("REMEDIATOR_SERVER_HOST", "0.0.0.0"),
		Port:            getEnvInt("REMEDIATOR_SERVER_PORT", 8000),
		ReadTimeout:     getEnvDuration("REMEDIATOR_SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDuration("REMEDIATOR_SERVER_WRITE_TIMEOUT", 15*time.Minute),
		ShutdownTimeout: getEnvDuration("REMEDIATOR_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	// Remediation configuration
	cfg.Remediation = RemediationConfig{
		PromptStyle: getEnvString("REMEDIATOR_PROMPT_STYLE", "select-single"),
	}

	// Logging configuration
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("REMEDIATOR_LOG_LEVEL", "info"),
		Format:     getEnvString("REMEDIATOR_LOG_FORMAT", "text"),
		Output:     getEnvString("REMEDIATOR_LOG_OUTPUT", "stderr"),
		AddSource:  getEnvBool("REMEDIATOR_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("REMEDIATOR_LOG_TIME_FORMAT", time.RFC3339),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}
