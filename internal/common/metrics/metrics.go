// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsAnswered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_questions_answered_total",
			Help: "Total number of questions answered, by classified intent",
		},
		[]string{"intent"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_query_failures_total",
			Help: "Total number of aggregation failures, by classified intent",
		},
		[]string{"intent"},
	)

	QuestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_question_duration_seconds",
			Help: "Duration of end-to-end question processing in seconds",
		},
		[]string{"intent"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_answer_cache_hits_total",
			Help: "Total number of answers served from the Redis cache",
		},
	)
)
