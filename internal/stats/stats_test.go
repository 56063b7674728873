// internal/stats/stats_test.go
package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"procurement-assistant/internal/common/logger"
	"procurement-assistant/internal/models"
)

type fakeCollection struct {
	count       int64
	countErr    error
	distinct    map[string][]interface{}
	distinctErr error
	aggDocs     []interface{}
	aggErr      error
}

func (f *fakeCollection) CountDocuments(_ context.Context, _ interface{}, _ ...*options.CountOptions) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeCollection) Distinct(_ context.Context, fieldName string, _ interface{}, _ ...*options.DistinctOptions) ([]interface{}, error) {
	if f.distinctErr != nil {
		return nil, f.distinctErr
	}
	return f.distinct[fieldName], nil
}

func (f *fakeCollection) Aggregate(_ context.Context, _ interface{}, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if f.aggErr != nil {
		return nil, f.aggErr
	}
	return mongo.NewCursorFromDocuments(f.aggDocs, nil, nil)
}

func TestOverview(t *testing.T) {
	coll := &fakeCollection{
		count: 346018,
		distinct: map[string][]interface{}{
			models.FieldDepartmentName: {"Health", "Transportation", "Corrections"},
			models.FieldSupplierName:   {"Acme", "Initech"},
		},
		aggDocs: []interface{}{bson.M{"_id": nil, "total": 5000000000.0}},
	}

	got, err := New(coll, logger.NewTestLogger(t)).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Stats{
		Records:       346018,
		Departments:   3,
		Suppliers:     2,
		TotalSpending: 5000000000.0,
	}, got)
}

func TestOverview_EmptyCollection(t *testing.T) {
	coll := &fakeCollection{distinct: map[string][]interface{}{}}

	got, err := New(coll, logger.NewTestLogger(t)).Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, got.Records)
	assert.Zero(t, got.TotalSpending)
}

func TestOverview_CountError(t *testing.T) {
	coll := &fakeCollection{countErr: errors.New("down")}

	_, err := New(coll, logger.NewTestLogger(t)).Overview(context.Background())
	assert.Error(t, err)
}

func TestOverview_AggregateError(t *testing.T) {
	coll := &fakeCollection{
		distinct: map[string][]interface{}{},
		aggErr:   errors.New("down"),
	}

	_, err := New(coll, logger.NewTestLogger(t)).Overview(context.Background())
	assert.Error(t, err)
}
