// internal/agent/agent_test.go
package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"procurement-assistant/internal/agent/formatter"
	"procurement-assistant/internal/common/database"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/models"
)

type fakeExecutor struct {
	results   []bson.M
	err       error
	panicWith interface{}

	calls     int
	lastStage mongo.Pipeline
}

func (f *fakeExecutor) Aggregate(_ context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	f.calls++
	f.lastStage = pipeline
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.results, f.err
}

func TestAnswerQuestion_TotalSpending(t *testing.T) {
	exec := &fakeExecutor{results: []bson.M{{"total": 5000000000.0}}}
	a := New(exec, logger.NewTestLogger(t))

	answer := a.AnswerQuestion(context.Background(), "What is the total spending in 2013-2014?")

	assert.Equal(t, models.IntentSum, answer.Intent)
	assert.Equal(t, "**Total Spending:** $5,000,000,000.00", answer.Text)
	assert.False(t, answer.Cached)
	assert.NotEmpty(t, answer.RequestID)

	// the fiscal year filter must have reached the executor as a $match stage
	require.NotEmpty(t, exec.lastStage)
	assert.Equal(t, "$match", exec.lastStage[0][0].Key)
}

func TestAnswerQuestion_CountOfOrders(t *testing.T) {
	exec := &fakeExecutor{results: []bson.M{{"total": int32(346018)}}}
	a := New(exec, logger.NewTestLogger(t))

	answer := a.AnswerQuestion(context.Background(), "How many purchase orders are there?")

	assert.Equal(t, models.IntentCount, answer.Intent)
	assert.Equal(t, "**Total Number of Purchases:** 346,018", answer.Text)
}

func TestAnswerQuestion_ExecutorErrorRendersNoResults(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("server selection timeout")}
	a := New(exec, logger.NewTestLogger(t))

	answer := a.AnswerQuestion(context.Background(), "What is the total spending?")

	assert.Equal(t, formatter.NoResultsMessage, answer.Text)
}

func TestAnswerQuestion_EmptyResultsRenderNoResults(t *testing.T) {
	exec := &fakeExecutor{results: nil}
	a := New(exec, logger.NewTestLogger(t))

	answer := a.AnswerQuestion(context.Background(), "Which supplier received the most revenue?")

	assert.Equal(t, models.IntentTopSuppliers, answer.Intent)
	assert.Equal(t, formatter.NoResultsMessage, answer.Text)
}

func TestAnswerQuestion_PanicRecovered(t *testing.T) {
	exec := &fakeExecutor{panicWith: "boom"}
	a := New(exec, logger.NewTestLogger(t))

	answer := a.AnswerQuestion(context.Background(), "total spending")

	assert.Equal(t,
		"An error occurred while processing your question: boom\n\nPlease try rephrasing your question.",
		answer.Text)
}

func newTestCache(t *testing.T) *database.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return database.NewRedisFromClient(client)
}

func TestAnswerQuestion_CacheReadThrough(t *testing.T) {
	exec := &fakeExecutor{results: []bson.M{{"total": 1000.0}}}
	cache := newTestCache(t)
	a := New(exec, logger.NewTestLogger(t), WithCache(cache, time.Minute))

	first := a.AnswerQuestion(context.Background(), "Total spending in 2014?")
	require.Equal(t, "**Total Spending:** $1,000.00", first.Text)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, exec.calls)

	// case and surrounding whitespace do not defeat the cache
	second := a.AnswerQuestion(context.Background(), "  TOTAL SPENDING IN 2014?  ")
	assert.Equal(t, first.Text, second.Text)
	assert.True(t, second.Cached)
	assert.Equal(t, models.IntentSum, second.Intent)
	assert.Equal(t, 1, exec.calls, "cached answer must not hit the store again")
}

func TestAnswerQuestion_FailedQueriesAreNotCached(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("down")}
	cache := newTestCache(t)
	a := New(exec, logger.NewTestLogger(t), WithCache(cache, time.Minute))

	a.AnswerQuestion(context.Background(), "total spending")

	exec.err = nil
	exec.results = []bson.M{{"total": 42.0}}
	answer := a.AnswerQuestion(context.Background(), "total spending")

	assert.Equal(t, "**Total Spending:** $42.00", answer.Text)
	assert.Equal(t, 2, exec.calls)
}

func TestAnswerQuestion_NoCacheConfigured(t *testing.T) {
	exec := &fakeExecutor{results: []bson.M{{"total": 7.0}}}
	a := New(exec, logger.NewTestLogger(t))

	a.AnswerQuestion(context.Background(), "total spending")
	a.AnswerQuestion(context.Background(), "total spending")

	assert.Equal(t, 2, exec.calls)
}

func TestAnswerCacheKey(t *testing.T) {
	assert.Equal(t, "answer:total spending", answerCacheKey("  Total Spending "))
	assert.Equal(t, answerCacheKey("ABC"), answerCacheKey("abc"))
}
