// internal/loader/loader.go
package loader

import (
	"context"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "procurement-assistant/internal/common/errors"
	"procurement-assistant/internal/common/logger"
)

// Collection is the slice of the driver API the loader needs, kept small so
// tests can fake it.
type Collection interface {
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// Summary reports what a load run did.
type Summary struct {
	Source   string `json:"source"`
	Parsed   int    `json:"parsed"`
	Invalid  int    `json:"invalid"`
	Inserted int64  `json:"inserted"`
	Verified int64  `json:"verified"`
}

type Loader struct {
	collection Collection
	batchSize  int
	logger     logger.Logger
}

func New(collection Collection, batchSize int, log logger.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &Loader{
		collection: collection,
		batchSize:  batchSize,
		logger:     log.WithFields(map[string]interface{}{"component": "loader"}),
	}
}

// LoadFile parses, validates and imports one CSV extract. The collection is
// emptied first; a load run replaces the dataset rather than appending to it.
// Invalid records are dropped with a warning instead of aborting the run.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	summary := Summary{Source: path}

	f, err := os.Open(path)
	if err != nil {
		return summary, apperrors.NewDataFileNotFoundError([]string{path})
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return summary, apperrors.NewRecordValidationError(err.Error())
	}
	summary.Parsed = len(records)

	valid, invalid, err := Validate(records)
	if err != nil {
		return summary, err
	}
	summary.Invalid = len(invalid)
	if len(invalid) > 0 {
		l.logger.Warn("dropping invalid records", map[string]interface{}{
			"count": len(invalid),
			"first": invalid[0],
		})
	}

	inserted, err := l.replaceAll(ctx, valid)
	if err != nil {
		return summary, err
	}
	summary.Inserted = inserted

	verified, err := l.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return summary, apperrors.NewQueryExecutionFailedError("verify_count", err)
	}
	summary.Verified = verified

	l.logger.Info("load complete", map[string]interface{}{
		"source":   summary.Source,
		"parsed":   summary.Parsed,
		"invalid":  summary.Invalid,
		"inserted": summary.Inserted,
		"verified": summary.Verified,
	})
	return summary, nil
}

func (l *Loader) replaceAll(ctx context.Context, records []bson.M) (int64, error) {
	if _, err := l.collection.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, apperrors.NewDatabaseInsertFailedError(err)
	}

	var inserted int64
	for start := 0; start < len(records); start += l.batchSize {
		end := start + l.batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := make([]interface{}, 0, end-start)
		for _, r := range records[start:end] {
			batch = append(batch, r)
		}

		result, err := l.collection.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
		if err != nil {
			return inserted, apperrors.NewDatabaseInsertFailedError(err)
		}
		inserted += int64(len(result.InsertedIDs))

		l.logger.Debug("batch inserted", map[string]interface{}{
			"from": start,
			"to":   end,
		})
	}

	return inserted, nil
}
