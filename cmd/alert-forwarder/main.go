// Package main is the entrypoint for the Alert Forwarder Lambda function.
//
// The forwarder is subscribed to an SNS topic that receives EventBridge and
// CloudWatch alarm events. Each SNS record carries one JSON-encoded cloud
// event, which is formatted into a short alert and POSTed to an ntfy topic.
//
// Cold Start (main):
//  1. Load configuration from the environment (optional .env for local runs).
//  2. Initialize structured logger at LOG_LEVEL.
//  3. Select the secret provider (SSM, or environment when APP_ENV=local).
//  4. Initialize the ntfy client and the token cache.
//  5. Initialize CloudWatch metrics when METRICS_ENABLED=true.
//  6. Register handler and call lambda.Start.
//
// Handler flow:
//
//	For each SNS record in the batch, in order:
//	  1. Decode the cloud event from the SNS message.
//	  2. Format title and body (timestamps shown in ALERT_TIMEZONE).
//	  3. Read the ntfy token (SSM is hit once per container).
//	  4. POST to ntfy. Anything but 200 fails the invocation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"alertforwarder/internal/alert"
	"alertforwarder/internal/config"
	"alertforwarder/internal/credential"
	"alertforwarder/internal/external"
	"alertforwarder/internal/types"
)

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
// slog.Logger has the leveled methods but its With returns *slog.Logger,
// not types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

var _ types.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not configured yet; fall back to a default JSON logger.
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("Alert Forwarder Lambda initializing (cold start)",
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"environment", cfg.Environment,
	)

	typedLogger := &slogAdapter{logger: logger}

	forwarder, err := buildForwarder(context.Background(), cfg, typedLogger)
	if err != nil {
		logger.Error("Failed to initialize forwarder", "error", err)
		os.Exit(1)
	}

	logger.Info("Alert Forwarder Lambda initialized",
		"ntfy_url", cfg.Ntfy.URL,
		"token_parameter", cfg.Ntfy.TokenParameter,
		"timezone", cfg.Alert.Timezone,
		"parse_failure_policy", string(cfg.Alert.ParseFailurePolicy),
		"metrics_enabled", cfg.Observability.MetricsEnabled,
		"timeout", cfg.Ntfy.Timeout.String(),
	)

	lambda.Start(forwarder.Handle)
}

// buildForwarder wires the pipeline from cfg. AWS configuration is only
// loaded for CloudWatch; the SSM provider creates its own client lazily.
func buildForwarder(ctx context.Context, cfg *config.Config, logger types.Logger) (*alert.Forwarder, error) {
	loc, err := cfg.Alert.Location()
	if err != nil {
		return nil, err
	}

	ntfy, err := external.NewNtfyClient(&cfg.Ntfy, logger)
	if err != nil {
		return nil, err
	}

	tokens := credential.NewCache(config.NewSecretProvider(cfg), cfg.Ntfy.TokenParameter, logger)

	var metrics alert.Metrics = alert.NoopMetrics{}
	if cfg.Observability.MetricsEnabled {
		cwClient, err := newCloudWatchClient(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		metrics = alert.NewCloudWatchMetrics(cwClient, cfg.Observability.MetricNamespace, logger)
	}

	return alert.NewForwarder(alert.Deps{
		Formatter:   alert.NewFormatter(loc),
		Tokens:      tokens,
		Publisher:   ntfy,
		Metrics:     metrics,
		ParsePolicy: cfg.Alert.ParseFailurePolicy,
		Logger:      logger,
	})
}

func newCloudWatchClient(ctx context.Context, awsCfg config.AWSConfig) (*cloudwatch.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if awsCfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(awsCfg.Region))
	}

	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}

	return cloudwatch.NewFromConfig(sdkCfg, func(o *cloudwatch.Options) {
		if awsCfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(awsCfg.EndpointURL)
		}
	}), nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})
	return slog.New(handler)
}
