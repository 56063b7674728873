// internal/stats/stats.go

// Package stats computes the dataset overview shown alongside the assistant:
// record count, distinct departments and suppliers, and total spending.
package stats

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "procurement-assistant/internal/common/errors"
	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/models"
)

// Collection is the slice of the driver's collection API the service needs,
// kept small so tests can fake it.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

type Service struct {
	collection Collection
	logger     logger.Logger
}

func New(collection Collection, log logger.Logger) *Service {
	return &Service{
		collection: collection,
		logger:     log.WithFields(map[string]interface{}{"component": "stats"}),
	}
}

// Overview gathers the four headline numbers in one call. Any store fault
// aborts the whole overview; partial panels are worse than an error.
func (s *Service) Overview(ctx context.Context) (models.Stats, error) {
	var out models.Stats

	records, err := s.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return out, apperrors.NewQueryExecutionFailedError("count_documents", err)
	}
	out.Records = records

	departments, err := s.collection.Distinct(ctx, models.FieldDepartmentName, bson.D{})
	if err != nil {
		return out, apperrors.NewQueryExecutionFailedError("distinct_departments", err)
	}
	out.Departments = len(departments)

	suppliers, err := s.collection.Distinct(ctx, models.FieldSupplierName, bson.D{})
	if err != nil {
		return out, apperrors.NewQueryExecutionFailedError("distinct_suppliers", err)
	}
	out.Suppliers = len(suppliers)

	total, err := s.totalSpending(ctx)
	if err != nil {
		return out, err
	}
	out.TotalSpending = total

	s.logger.Debug("stats overview computed", map[string]interface{}{
		"records":     out.Records,
		"departments": out.Departments,
		"suppliers":   out.Suppliers,
	})
	return out, nil
}

func (s *Service) totalSpending(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("total_spending", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return 0, apperrors.NewQueryExecutionFailedError("total_spending", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	switch v := results[0]["total"].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, nil
	}
}
