package alert

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"alertforwarder/internal/types"
)

// MetricResult is the Result dimension of the DeliveryAttempt metric.
type MetricResult string

const (
	MetricSuccess MetricResult = "success"
	MetricFailed  MetricResult = "failed"
	MetricSkipped MetricResult = "skipped"
)

// Metrics records delivery telemetry. Implementations must not fail the
// batch; errors are logged and dropped.
type Metrics interface {
	RecordDelivery(ctx context.Context, result MetricResult)
	RecordLatency(ctx context.Context, duration time.Duration)
}

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

var (
	_ Metrics = (*CloudWatchMetrics)(nil)
	_ Metrics = NoopMetrics{}
)

// CloudWatchMetrics emits:
//   - DeliveryAttempt: Dims {Result}, once per record
//   - DeliveryLatency: no dims, milliseconds spent publishing to ntfy
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
}

// NewCloudWatchMetrics creates a CloudWatchMetrics publishing to namespace.
// An empty namespace uses types.DefaultMetricNamespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchMetrics {
	if namespace == "" {
		namespace = types.DefaultMetricNamespace
	}
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordDelivery emits a DeliveryAttempt count with the Result dimension.
func (m *CloudWatchMetrics) RecordDelivery(ctx context.Context, result MetricResult) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricDeliveryAttempt),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{
						Name:  aws.String(types.DimResult),
						Value: aws.String(string(result)),
					},
				},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record delivery metric",
			"error", err.Error(),
			"result", string(result),
		)
	}
}

// RecordLatency emits the publish latency in milliseconds.
func (m *CloudWatchMetrics) RecordLatency(ctx context.Context, duration time.Duration) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(types.MetricDeliveryLatency),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record latency metric",
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// NoopMetrics discards all telemetry. Used when METRICS_ENABLED=false.
type NoopMetrics struct{}

func (NoopMetrics) RecordDelivery(context.Context, MetricResult)  {}
func (NoopMetrics) RecordLatency(context.Context, time.Duration) {}
