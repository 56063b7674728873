// cmd/tools/data-loader/main.go

// data-loader imports the procurement CSV extract into MongoDB, replacing any
// existing data. Run it once before starting the assistant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"procurement-assistant/internal/common/config"
	"procurement-assistant/internal/common/database"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/loader"
)

func main() {
	var (
		file      = flag.String("file", "", "path to the CSV extract (default: first configured path that exists)")
		batchSize = flag.Int("batch-size", 0, "insert batch size (default: from config)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	path := *file
	if path == "" {
		path, err = loader.FindDataFile(cfg.Loader.CSVPaths)
		if err != nil {
			zapLog.Fatal("no data file found", zap.Error(err))
		}
	}

	size := cfg.Loader.BatchSize
	if *batchSize > 0 {
		size = *batchSize
	}

	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Database.Mongo.Timeout))
	mongoClient, err := database.NewMongo(connectCtx, cfg.Database.Mongo)
	if err == nil {
		err = mongoClient.Ping(connectCtx)
	}
	cancel()
	if err != nil {
		zapLog.Fatal("MongoDB unavailable", zap.Error(err))
	}
	defer mongoClient.Close(ctx)

	zapLog.Info("Importing extract",
		zap.String("file", path),
		zap.Int("batchSize", size),
		zap.String("collection", cfg.Database.Mongo.Collection),
	)

	summary, err := loader.New(mongoClient.Collection(), size, log).LoadFile(ctx, path)
	if err != nil {
		zapLog.Fatal("import failed", zap.Error(err))
	}

	zapLog.Info("Import complete",
		zap.Int("parsed", summary.Parsed),
		zap.Int("invalid", summary.Invalid),
		zap.Int64("inserted", summary.Inserted),
		zap.Int64("verified", summary.Verified),
	)
}
