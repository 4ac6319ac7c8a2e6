package gemx

// Metrics is a collection of usage metrics attached to a [Reply]. The map's
// keys are metric names; values are typically ints.
//
// The metrics a reply carries when the service reports them:
//   - [UsageMetricInputTokens]: tokens in the request content
//   - [UsageMetricOutputTokens]: tokens in the generated candidates
//   - [UsageMetricCachedTokens]: request tokens served from cached content
type Metrics map[string]any

const (
	// UsageMetricInputTokens is a metric key representing the number of tokens
	// in the request content. The value is of type int.
	UsageMetricInputTokens = "input_tokens"

	// UsageMetricOutputTokens is a metric key representing the number of tokens
	// in the generated output. The value is of type int.
	UsageMetricOutputTokens = "output_tokens"

	// UsageMetricCachedTokens is a metric key representing the number of
	// request tokens that were served from cached content rather than resent.
	// The value is of type int.
	UsageMetricCachedTokens = "cached_tokens"
)

// InputTokens returns the number of input tokens from the metrics. The second
// return value indicates whether the metric was present.
func InputTokens(m Metrics) (int, bool) {
	return GetMetric[int](m, UsageMetricInputTokens)
}

// OutputTokens returns the number of generated tokens from the metrics. The
// second return value indicates whether the metric was present.
func OutputTokens(m Metrics) (int, bool) {
	return GetMetric[int](m, UsageMetricOutputTokens)
}

// CachedTokens returns the number of cached-content tokens from the metrics.
// The second return value indicates whether the metric was present.
func CachedTokens(m Metrics) (int, bool) {
	return GetMetric[int](m, UsageMetricCachedTokens)
}

// GetMetric retrieves a metric value of type T from the metrics map. The
// second return value indicates whether the metric was present.
//
// Panics if the value in the metrics map cannot be type asserted to T.
func GetMetric[T any](m Metrics, key string) (T, bool) {
	var metric T
	metricVal, ok := m[key]
	if !ok {
		return metric, false
	}
	metric = metricVal.(T)
	return metric, true
}
