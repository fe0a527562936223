package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// forwarderEnvKeys lists every variable LoadConfig reads.
var forwarderEnvKeys = []string{
	"APP_ENV", "LOG_LEVEL",
	"NTFY_URL", "NTFY_TOKEN_PARAMETER", "NTFY_PRIORITY", "NTFY_TAGS", "NTFY_TIMEOUT", "NTFY_USER_AGENT",
	"ALERT_TIMEZONE", "PARSE_FAILURE_POLICY",
	"AWS_REGION", "AWS_ENDPOINT_URL",
	"METRICS_ENABLED", "METRIC_NAMESPACE",
}

// clearForwarderEnv unsets every forwarder variable for the duration of the
// test. t.Setenv cannot express "unset", and envconfig treats an empty value
// as set, so the previous values are restored manually.
func clearForwarderEnv(t *testing.T) {
	t.Helper()
	for _, key := range forwarderEnvKeys {
		prev, had := os.LookupEnv(key)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
		t.Cleanup(func() {
			if had {
				os.Setenv(key, prev)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearForwarderEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Environment != "prod" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "prod")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Ntfy.URL != "https://ntfy.sh/alerts" {
		t.Errorf("Ntfy.URL = %q, want default", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.TokenParameter != "/alerting/ntfy-token" {
		t.Errorf("Ntfy.TokenParameter = %q, want default", cfg.Ntfy.TokenParameter)
	}
	if cfg.Ntfy.Priority != 3 {
		t.Errorf("Ntfy.Priority = %d, want 3", cfg.Ntfy.Priority)
	}
	if cfg.Ntfy.Tags != "alert" {
		t.Errorf("Ntfy.Tags = %q, want %q", cfg.Ntfy.Tags, "alert")
	}
	if cfg.Ntfy.Timeout != 10*time.Second {
		t.Errorf("Ntfy.Timeout = %v, want 10s", cfg.Ntfy.Timeout)
	}
	if cfg.Alert.Timezone != "Europe/Amsterdam" {
		t.Errorf("Alert.Timezone = %q, want Europe/Amsterdam", cfg.Alert.Timezone)
	}
	if cfg.Alert.ParseFailurePolicy != ParseFailureFail {
		t.Errorf("Alert.ParseFailurePolicy = %q, want %q", cfg.Alert.ParseFailurePolicy, ParseFailureFail)
	}
	if cfg.Observability.MetricsEnabled {
		t.Error("Observability.MetricsEnabled should default to false")
	}
	if cfg.Observability.MetricNamespace != "AlertForwarder" {
		t.Errorf("Observability.MetricNamespace = %q", cfg.Observability.MetricNamespace)
	}
	if cfg.IsLocal() {
		t.Error("default environment should not be local")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearForwarderEnv(t)
	t.Setenv("APP_ENV", "local")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("NTFY_URL", "https://ntfy.test/aws")
	t.Setenv("NTFY_TOKEN_PARAMETER", "/custom/token")
	t.Setenv("NTFY_PRIORITY", "5")
	t.Setenv("NTFY_TAGS", "warning,aws")
	t.Setenv("NTFY_TIMEOUT", "3s")
	t.Setenv("ALERT_TIMEZONE", "America/New_York")
	t.Setenv("PARSE_FAILURE_POLICY", "skip")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if !cfg.IsLocal() {
		t.Error("IsLocal() = false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want lower-cased %q", cfg.LogLevel, "debug")
	}
	if cfg.Ntfy.URL != "https://ntfy.test/aws" {
		t.Errorf("Ntfy.URL = %q", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.TokenParameter != "/custom/token" {
		t.Errorf("Ntfy.TokenParameter = %q", cfg.Ntfy.TokenParameter)
	}
	if cfg.Ntfy.Priority != 5 {
		t.Errorf("Ntfy.Priority = %d, want 5", cfg.Ntfy.Priority)
	}
	if cfg.Ntfy.Tags != "warning,aws" {
		t.Errorf("Ntfy.Tags = %q", cfg.Ntfy.Tags)
	}
	if cfg.Ntfy.Timeout != 3*time.Second {
		t.Errorf("Ntfy.Timeout = %v, want 3s", cfg.Ntfy.Timeout)
	}
	if cfg.Alert.ParseFailurePolicy != ParseFailureSkip {
		t.Errorf("Alert.ParseFailurePolicy = %q, want skip", cfg.Alert.ParseFailurePolicy)
	}
	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("AWS.Region = %q", cfg.AWS.Region)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("Observability.MetricsEnabled = false, want true")
	}

	loc, err := cfg.Alert.Location()
	if err != nil {
		t.Fatalf("Location() returned error: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("Location() = %q", loc.String())
	}
}

func TestLoadConfigValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		errType ConfigErrorType
	}{
		{"unknown environment", "APP_ENV", "qa", ErrValidation},
		{"invalid url", "NTFY_URL", "not a url", ErrValidation},
		{"priority too high", "NTFY_PRIORITY", "9", ErrValidation},
		{"priority not a number", "NTFY_PRIORITY", "high", ErrParsing},
		{"bad duration", "NTFY_TIMEOUT", "soon", ErrParsing},
		{"unknown timezone", "ALERT_TIMEZONE", "Mars/Olympus_Mons", ErrValidation},
		{"unknown parse policy", "PARSE_FAILURE_POLICY", "ignore", ErrValidation},
		{"unknown log level", "LOG_LEVEL", "verbose", ErrValidation},
		{"empty token parameter", "NTFY_TOKEN_PARAMETER", "", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearForwarderEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Type != tt.errType {
				t.Errorf("ConfigError.Type = %q, want %q", cfgErr.Type, tt.errType)
			}
		})
	}
}

func TestConfigErrorFormat(t *testing.T) {
	withCause := &ConfigError{Type: ErrParsing, Message: "bad value", Err: errors.New("strconv failure")}
	if !strings.HasPrefix(withCause.Error(), "[PARSING_FAILED] bad value") {
		t.Errorf("Error() = %q", withCause.Error())
	}
	if withCause.Unwrap() == nil {
		t.Error("Unwrap() should return the cause")
	}

	bare := &ConfigError{Type: ErrValidation, Message: "missing"}
	if bare.Error() != "[VALIDATION_FAILED] missing" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestNewSecretProviderSelection(t *testing.T) {
	local := &Config{Environment: "local"}
	if _, ok := NewSecretProvider(local).(*EnvVarProvider); !ok {
		t.Errorf("local environment should use EnvVarProvider, got %T", NewSecretProvider(local))
	}

	prod := &Config{Environment: "prod", AWS: AWSConfig{Region: "eu-west-1"}}
	provider, ok := NewSecretProvider(prod).(*SSMProvider)
	if !ok {
		t.Fatalf("prod environment should use SSMProvider, got %T", NewSecretProvider(prod))
	}
	if provider.region != "eu-west-1" {
		t.Errorf("SSMProvider.region = %q, want eu-west-1", provider.region)
	}
	if provider.client != nil {
		t.Error("SSM client should not be created before first use")
	}
}
