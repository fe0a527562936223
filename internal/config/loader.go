// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC as the process timezone; display zones are explicit.
//  2. Load .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Normalize LOG_LEVEL and populate BuildInfo.
//  5. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// localEnv is the APP_ENV value that selects the environment secret provider.
const localEnv = "local"

// validLogLevels lists the accepted LOG_LEVEL values after lower-casing.
var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// LoadConfig loads and validates the forwarder configuration from the
// environment. It is called once from main during cold start.
func LoadConfig() (*Config, error) {
	time.Local = time.UTC

	// godotenv.Load does NOT override variables already in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if !validLogLevels[cfg.LogLevel] {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: fmt.Sprintf("unsupported LOG_LEVEL %q", cfg.LogLevel),
		}
	}

	cfg.Build = NewBuildInfo()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// IsLocal reports whether the process runs outside AWS, in which case the
// ntfy token is read from the environment instead of SSM.
func (c *Config) IsLocal() bool {
	return c.Environment == localEnv
}

// NewSecretProvider selects the SecretProvider for the configured environment.
func NewSecretProvider(cfg *Config) SecretProvider {
	if cfg.IsLocal() {
		return NewEnvVarProvider()
	}
	return NewSSMProvider(cfg.AWS.Region, cfg.AWS.EndpointURL)
}
