// internal/agent/executor/executor.go

// Package executor runs aggregation pipelines against the purchases
// collection. It is the only place a store fault can surface; callers get an
// explicit error, never a panic.
package executor

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "procurement-assistant/internal/common/errors"
	"procurement-assistant/internal/common/logger"
)

// Executor abstracts the store's aggregation capability so the orchestrator
// can be tested against a fake.
type Executor interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)
}

// MongoExecutor executes pipelines against a live collection with
// allowDiskUse enabled, since several intents group the full dataset.
type MongoExecutor struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewMongo(collection *mongo.Collection, log logger.Logger) *MongoExecutor {
	return &MongoExecutor{
		collection: collection,
		logger:     log.WithFields(map[string]interface{}{"component": "executor"}),
	}
}

func (e *MongoExecutor) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	opts := options.Aggregate().SetAllowDiskUse(true)

	cursor, err := e.collection.Aggregate(ctx, pipeline, opts)
	if err != nil {
		e.logger.Error("query execution error", map[string]interface{}{
			"error":    err.Error(),
			"pipeline": fmt.Sprintf("%v", pipeline),
		})
		return nil, apperrors.NewQueryExecutionFailedError("aggregate", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		e.logger.Error("cursor drain error", map[string]interface{}{
			"error":    err.Error(),
			"pipeline": fmt.Sprintf("%v", pipeline),
		})
		return nil, apperrors.NewQueryExecutionFailedError("cursor", err)
	}

	return results, nil
}
