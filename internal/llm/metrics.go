package llm

import "github.com/prometheus/client_golang/prometheus"

var (
	// completionReqs counts completion calls by terminal outcome
	// (ok|error|not_configured).
	completionReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completion_requests_total",
			Help: "Total number of completion calls by outcome.",
		},
		[]string{"outcome"},
	)

	// completionLat records the measured duration of successful attempts.
	completionLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "Duration of successful completion calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		},
	)

	// completionTokens accumulates reported token usage by kind
	// (prompt|completion|total).
	completionTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completion_tokens_total",
			Help: "Tokens reported by the completion service.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(completionReqs, completionLat, completionTokens)
}

func observe(res *Result) {
	completionReqs.WithLabelValues("ok").Inc()
	completionLat.Observe(res.ResponseTime.Seconds())
	if res.Usage != nil {
		completionTokens.WithLabelValues("prompt").Add(float64(res.Usage.PromptTokens))
		completionTokens.WithLabelValues("completion").Add(float64(res.Usage.CompletionTokens))
		completionTokens.WithLabelValues("total").Add(float64(res.Usage.TotalTokens))
	}
}
