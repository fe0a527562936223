package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"alertforwarder/internal/config"
	"alertforwarder/internal/external"
	"alertforwarder/internal/types"
)

const successMessage = "Alerts processed successfully"

// Response is the Lambda result returned once the whole batch succeeded.
// Body holds a JSON string literal.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// TokenSource supplies the ntfy bearer token. credential.Cache implements it.
type TokenSource interface {
	Token(ctx context.Context) (types.SecretString, error)
}

// Forwarder is the Lambda handler. It holds every collaborator of the
// pipeline so tests can substitute them.
type Forwarder struct {
	formatter   *Formatter
	tokens      TokenSource
	publisher   external.NotificationPublisher
	metrics     Metrics
	parsePolicy config.ParseFailurePolicy
	logger      types.Logger
	clock       types.Clock
}

// Deps groups the collaborators passed to NewForwarder.
type Deps struct {
	Formatter   *Formatter
	Tokens      TokenSource
	Publisher   external.NotificationPublisher
	Metrics     Metrics
	ParsePolicy config.ParseFailurePolicy
	Logger      types.Logger
}

// NewForwarder validates deps and builds a Forwarder. Metrics defaults to
// NoopMetrics and ParsePolicy to config.ParseFailureFail.
func NewForwarder(deps Deps) (*Forwarder, error) {
	if deps.Formatter == nil {
		return nil, fmt.Errorf("forwarder: formatter is nil")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("forwarder: token source is nil")
	}
	if deps.Publisher == nil {
		return nil, fmt.Errorf("forwarder: publisher is nil")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("forwarder: logger is nil")
	}
	if deps.Metrics == nil {
		deps.Metrics = NoopMetrics{}
	}
	switch deps.ParsePolicy {
	case "":
		deps.ParsePolicy = config.ParseFailureFail
	case config.ParseFailureFail, config.ParseFailureSkip:
	default:
		return nil, fmt.Errorf("forwarder: unknown parse failure policy %q", deps.ParsePolicy)
	}

	return &Forwarder{
		formatter:   deps.Formatter,
		tokens:      deps.Tokens,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		parsePolicy: deps.ParsePolicy,
		logger:      deps.Logger,
		clock:       types.RealClock{},
	}, nil
}

// SetClock overrides the clock for testing.
func (f *Forwarder) SetClock(c types.Clock) {
	f.clock = c
}

// Handle processes an SNS batch. Records are handled one at a time in
// order. The first failure aborts the batch and is returned to Lambda;
// a malformed payload is skipped instead when the parse policy is "skip".
func (f *Forwarder) Handle(ctx context.Context, event events.SNSEvent) (Response, error) {
	requestID := requestIDFromContext(ctx)
	ctx = types.WithRequestID(ctx, requestID)
	logger := f.logger.With("request_id", requestID)

	logger.Info("processing SNS batch", "record_count", len(event.Records))

	for idx, record := range event.Records {
		recordLogger := logger.With(
			"record_index", idx,
			"message_id", record.SNS.MessageID,
		)

		err := f.processRecord(ctx, record, recordLogger)
		if err == nil {
			continue
		}

		if isParseError(err) && f.parsePolicy == config.ParseFailureSkip {
			recordLogger.Warn("skipping malformed SNS message", "error", err.Error())
			f.metrics.RecordDelivery(ctx, MetricSkipped)
			continue
		}

		recordLogger.Error("error processing alert", "error", err.Error())
		return Response{}, fmt.Errorf("record %d (message %s): %w", idx, record.SNS.MessageID, err)
	}

	body, _ := json.Marshal(successMessage)
	return Response{StatusCode: 200, Body: string(body)}, nil
}

// processRecord runs the parse, format, token and publish steps for one record.
func (f *Forwarder) processRecord(ctx context.Context, record events.SNSEventRecord, logger types.Logger) error {
	ev, err := ParseCloudEvent(record.SNS.Message)
	if err != nil {
		return err
	}

	alert := f.formatter.Format(ev)
	logger.Debug("alert formatted",
		"title", alert.Title,
		"body", alert.Body,
		"source", ev.Source,
		"region", ev.Region,
	)

	token, err := f.tokens.Token(ctx)
	if err != nil {
		return err
	}

	start := f.clock.Now()
	err = f.publisher.Publish(ctx, external.Message{
		Title: alert.Title,
		Body:  alert.Body,
		Token: token,
	})
	f.metrics.RecordLatency(ctx, durationSince(start, f.clock.Now()))

	if err != nil {
		f.metrics.RecordDelivery(ctx, MetricFailed)
		return err
	}

	f.metrics.RecordDelivery(ctx, MetricSuccess)
	logger.Info("notification sent successfully", "title", alert.Title)
	return nil
}

// isParseError reports whether err came from decoding the SNS message.
func isParseError(err error) bool {
	var appErr *types.AppError
	return errors.As(err, &appErr) && appErr.Code == types.ErrCodeValidationEventPayload
}

// requestIDFromContext returns the Lambda request ID, or a fresh UUID when
// the handler runs outside the Lambda runtime.
func requestIDFromContext(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

// durationSince clamps negative durations to zero.
func durationSince(start, now time.Time) time.Duration {
	if now.Before(start) {
		return 0
	}
	return now.Sub(start)
}
