package types

// CloudWatch metric names and dimensions emitted by the forwarder.
const (
	MetricDeliveryAttempt = "DeliveryAttempt"
	MetricDeliveryLatency = "DeliveryLatency"

	DimResult = "Result"

	// DefaultMetricNamespace is used when METRIC_NAMESPACE is unset.
	DefaultMetricNamespace = "AlertForwarder"
)
