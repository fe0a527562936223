// Package config defines the configuration of the alert forwarder Lambda.
// Configuration is loaded once at process initialization (Lambda Cold Start)
// and is immutable thereafter.
//
// Values come from the OS environment, optionally seeded from a .env file for
// local development. The ntfy bearer token is NOT part of Config: it is read
// lazily from the secret store on first delivery (see SecretProvider).
package config

import (
	"fmt"
	"time"

	// provided.al2 Lambda runtimes ship without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Config is the top-level configuration struct for the alert forwarder.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"prod" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"INFO"`

	Ntfy          NtfyConfig
	Alert         AlertConfig
	AWS           AWSConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// NtfyConfig holds the delivery endpoint settings.
type NtfyConfig struct {
	URL            string        `envconfig:"NTFY_URL" default:"https://ntfy.sh/alerts" validate:"required,url"`
	TokenParameter string        `envconfig:"NTFY_TOKEN_PARAMETER" default:"/alerting/ntfy-token" validate:"required"`
	Priority       int           `envconfig:"NTFY_PRIORITY" default:"3" validate:"min=1,max=5"`
	Tags           string        `envconfig:"NTFY_TAGS" default:"alert"`
	Timeout        time.Duration `envconfig:"NTFY_TIMEOUT" default:"10s" validate:"gt=0"`
	UserAgent      string        `envconfig:"NTFY_USER_AGENT" default:"aws-ntfy-alerts/1.0"`
}

// ParseFailurePolicy decides what happens to a batch when one SNS message
// is not valid JSON.
type ParseFailurePolicy string

const (
	// ParseFailureFail aborts the batch and returns the error to Lambda.
	ParseFailureFail ParseFailurePolicy = "fail"
	// ParseFailureSkip logs the bad record and continues with the next one.
	ParseFailureSkip ParseFailurePolicy = "skip"
)

// AlertConfig holds message formatting and batch handling settings.
type AlertConfig struct {
	// Timezone is the IANA zone used to render event timestamps.
	Timezone           string             `envconfig:"ALERT_TIMEZONE" default:"Europe/Amsterdam" validate:"required,timezone"`
	ParseFailurePolicy ParseFailurePolicy `envconfig:"PARSE_FAILURE_POLICY" default:"fail" validate:"oneof=fail skip"`
}

// Location resolves Timezone. Config validation guarantees it loads.
func (a AlertConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// AWSConfig holds regional settings for the SSM and CloudWatch clients.
type AWSConfig struct {
	// Empty means the SDK default chain (AWS_REGION is set by Lambda).
	Region string `envconfig:"AWS_REGION"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricsEnabled  bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"AlertForwarder"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
