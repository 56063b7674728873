// internal/api/server_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-assistant/internal/agent"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/models"
)

type fakeAnswerer struct {
	answer agent.Answer
}

func (f *fakeAnswerer) AnswerQuestion(_ context.Context, question string) agent.Answer {
	a := f.answer
	a.Question = question
	return a
}

type fakeStats struct {
	stats models.Stats
	err   error
}

func (f *fakeStats) Overview(_ context.Context) (models.Stats, error) {
	return f.stats, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func newTestServer(t *testing.T, answerer Answerer, stats StatsProvider, store Pinger) *httptest.Server {
	t.Helper()
	srv := NewServer(answerer, stats, store, logger.NewTestLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestAsk(t *testing.T) {
	answerer := &fakeAnswerer{answer: agent.Answer{
		Intent: models.IntentSum,
		Text:   "**Total Spending:** $5,000,000,000.00",
	}}
	ts := newTestServer(t, answerer, &fakeStats{}, &fakePinger{})

	resp, err := http.Post(ts.URL+"/api/ask", "application/json",
		strings.NewReader(`{"question": "What is the total spending?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got agent.Answer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "What is the total spending?", got.Question)
	assert.Equal(t, models.IntentSum, got.Intent)
	assert.Equal(t, "**Total Spending:** $5,000,000,000.00", got.Text)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{})

	resp, err := http.Post(ts.URL+"/api/ask", "application/json",
		strings.NewReader(`{"question": "   "}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk_InvalidBody(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{})

	resp, err := http.Post(ts.URL+"/api/ask", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk_GetNotAllowed(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{})

	resp, err := http.Get(ts.URL + "/api/ask")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type fakeRecorder struct {
	processed []string
	durations int
}

func (f *fakeRecorder) RecordQuestionProcessed(_ context.Context, status string) {
	f.processed = append(f.processed, status)
}

func (f *fakeRecorder) RecordQuestionDuration(_ context.Context, _ time.Duration, _ string) {
	f.durations++
}

func TestAsk_RecordsTelemetry(t *testing.T) {
	answerer := &fakeAnswerer{answer: agent.Answer{Intent: models.IntentSum, Cached: true, Text: "x"}}
	rec := &fakeRecorder{}
	srv := NewServer(answerer, &fakeStats{}, &fakePinger{}, logger.NewTestLogger(t)).WithRecorder(rec)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/api/ask", "application/json",
		strings.NewReader(`{"question": "total spending"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"cached"}, rec.processed)
	assert.Equal(t, 1, rec.durations)
}

func TestStats(t *testing.T) {
	stats := &fakeStats{stats: models.Stats{
		Records:       346018,
		Departments:   120,
		Suppliers:     2300,
		TotalSpending: 5000000000,
	}}
	ts := newTestServer(t, &fakeAnswerer{}, stats, &fakePinger{})

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, stats.stats, got)
}

func TestStats_Unavailable(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{err: errors.New("down")}, &fakePinger{})

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth_StoreDown(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{err: errors.New("no reachable servers")})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeAnswerer{}, &fakeStats{}, &fakePinger{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
