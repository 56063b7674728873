// internal/api/server.go

// Package api exposes the assistant over HTTP: question answering, the stats
// panel, health and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"procurement-assistant/internal/agent"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/models"
)

// Answerer processes one natural-language question.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question string) agent.Answer
}

// StatsProvider computes the dataset overview.
type StatsProvider interface {
	Overview(ctx context.Context) (models.Stats, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Recorder receives per-question telemetry.
type Recorder interface {
	RecordQuestionProcessed(ctx context.Context, status string)
	RecordQuestionDuration(ctx context.Context, duration time.Duration, status string)
}

type Server struct {
	answerer Answerer
	stats    StatsProvider
	store    Pinger
	recorder Recorder
	logger   logger.Logger
}

func NewServer(answerer Answerer, stats StatsProvider, store Pinger, log logger.Logger) *Server {
	return &Server{
		answerer: answerer,
		stats:    stats,
		store:    store,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// WithRecorder attaches a telemetry recorder to the ask endpoint.
func (s *Server) WithRecorder(r Recorder) *Server {
	s.recorder = r
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return s.logRequests(mux)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	start := time.Now()
	answer := s.answerer.AnswerQuestion(r.Context(), req.Question)
	if s.recorder != nil {
		status := "answered"
		if answer.Cached {
			status = "cached"
		}
		s.recorder.RecordQuestionProcessed(r.Context(), status)
		s.recorder.RecordQuestionDuration(r.Context(), time.Since(start), status)
	}
	s.writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	stats, err := s.stats.Overview(r.Context())
	if err != nil {
		s.logger.Error("stats overview failed", map[string]interface{}{"error": err.Error()})
		s.writeError(w, http.StatusServiceUnavailable, "statistics are temporarily unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	s.writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
