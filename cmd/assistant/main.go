// cmd/assistant/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"procurement-assistant/internal/agent"
	"procurement-assistant/internal/agent/executor"
	"procurement-assistant/internal/api"
	"procurement-assistant/internal/common/config"
	"procurement-assistant/internal/common/database"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/common/observability"
	"procurement-assistant/internal/stats"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting procurement assistant...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("procurement-assistant")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Mongo with retry ---
	var mongoClient *database.MongoClient
	err = retryWithBackoff(func() error {
		var err error
		connectCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Database.Mongo.Timeout))
		defer cancel()
		mongoClient, err = database.NewMongo(connectCtx, cfg.Database.Mongo)
		if err != nil {
			return err
		}
		return mongoClient.Ping(connectCtx)
	}, 10, 2*time.Second, zapLog, "MongoDB initialization")
	if err != nil {
		zapLog.Fatal("MongoDB unavailable", zap.Error(err))
	}
	defer mongoClient.Close(ctx)

	agentOpts := []agent.Option{}

	// --- Init Redis cache (optional) ---
	if cfg.Cache.Enabled {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = redisClient.Ping(ctx)
		}
		if err != nil {
			// the cache is an optimization; the assistant runs without it
			zapLog.Warn("Redis unavailable, answer cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			agentOpts = append(agentOpts, agent.WithCache(redisClient, cfg.Cache.TTL))
			zapLog.Info("Answer cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	exec := executor.NewMongo(mongoClient.Collection(), log)
	assistant := agent.New(exec, log, agentOpts...)
	statsService := stats.New(mongoClient.Collection(), log)
	server := api.NewServer(assistant, statsService, mongoClient, log).WithRecorder(obs)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Wait for shutdown signal ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown error", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
