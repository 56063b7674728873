// internal/agent/agent.go

// Package agent answers natural-language procurement questions. It wires the
// keyword classifier, filter extraction, pipeline builder, store executor and
// Markdown formatter into a single entry point.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"procurement-assistant/internal/agent/executor"
	"procurement-assistant/internal/agent/filters"
	"procurement-assistant/internal/agent/formatter"
	"procurement-assistant/internal/agent/intent"
	"procurement-assistant/internal/agent/pipeline"
	"procurement-assistant/internal/common/database"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/common/metrics"
	"procurement-assistant/internal/models"
)

// Answer is the result of processing one question.
type Answer struct {
	RequestID string             `json:"request_id"`
	Question  string             `json:"question"`
	Intent    models.IntentLabel `json:"intent"`
	Text      string             `json:"answer"`
	Cached    bool               `json:"cached"`
}

// Agent orchestrates question processing. The Redis cache is optional; with a
// nil cache every question goes to the store.
type Agent struct {
	exec     executor.Executor
	cache    *database.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger
}

type Option func(*Agent)

// WithCache enables the read-through answer cache. The dataset is a fixed
// extract, so identical questions always produce identical answers and a TTL
// exists only to bound staleness after a reload.
func WithCache(cache *database.RedisClient, ttl time.Duration) Option {
	return func(a *Agent) {
		a.cache = cache
		a.cacheTTL = ttl
	}
}

func New(exec executor.Executor, log logger.Logger, opts ...Option) *Agent {
	a := &Agent{
		exec:   exec,
		logger: log.WithFields(map[string]interface{}{"component": "agent"}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnswerQuestion classifies the question, runs the matching aggregation and
// renders the answer. It never returns an error to the caller: an execution
// fault renders as the no-results message, and a panic anywhere in the chain
// renders as a generic apology. That mirrors the product behaviour of always
// giving the user something to read.
func (a *Agent) AnswerQuestion(ctx context.Context, question string) (answer Answer) {
	requestID := uuid.New().String()
	start := time.Now()

	answer = Answer{
		RequestID: requestID,
		Question:  question,
	}

	log := a.logger.WithFields(map[string]interface{}{"request_id": requestID})

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing question", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
			})
			answer.Text = fmt.Sprintf(
				"An error occurred while processing your question: %v\n\nPlease try rephrasing your question.", r)
		}
	}()

	cacheKey := answerCacheKey(question)
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.Inc()
			log.Debug("answer served from cache", map[string]interface{}{"key": cacheKey})
			answer.Intent = intent.Classify(question)
			answer.Text = cached
			answer.Cached = true
			return answer
		}
	}

	label := intent.Classify(question)
	fs := filters.Extract(question)
	pipe := pipeline.Build(label, fs)

	log.Info("processing question", map[string]interface{}{
		"intent":  string(label),
		"filters": fs,
	})

	results, err := a.exec.Aggregate(ctx, pipe)
	if err != nil {
		// surfaces to the user as "no results"; the executor already logged it
		metrics.QueryFailures.WithLabelValues(string(label)).Inc()
		results = nil
	}

	text := formatter.Format(results, label)

	metrics.QuestionsAnswered.WithLabelValues(string(label)).Inc()
	metrics.QuestionDuration.WithLabelValues(string(label)).Observe(time.Since(start).Seconds())

	if a.cache != nil && err == nil {
		if cerr := a.cache.Set(ctx, cacheKey, text, a.cacheTTL); cerr != nil {
			log.Warn("answer cache write failed", map[string]interface{}{"error": cerr.Error()})
		}
	}

	answer.Intent = label
	answer.Text = text
	return answer
}

// answerCacheKey normalizes the question so trivially different phrasings of
// the same text share a cache entry.
func answerCacheKey(question string) string {
	return "answer:" + strings.ToLower(strings.TrimSpace(question))
}
