// internal/agent/pipeline/builder.go

// Package pipeline builds the aggregation pipeline for a classified question.
package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"procurement-assistant/internal/agent/filters"
	"procurement-assistant/internal/models"
)

// Build constructs the aggregation stages for the given intent and filters.
// Filters translate into a leading $match stage — except for the intents whose
// shape below assigns a whole new pipeline, which silently discard it. That
// discard mirrors the upstream product behaviour and must not be "fixed" by
// merging the match in.
//
// Stages are bson.D throughout so a pipeline's exact shape can be asserted in
// tests by direct comparison.
func Build(label models.IntentLabel, fs filters.FilterSet) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if match := matchConditions(fs); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	switch label {
	case models.IntentSum:
		pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
		}}})

	case models.IntentAverage:
		pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
		}}})

	case models.IntentCount:
		pipeline = append(pipeline, bson.D{{Key: "$count", Value: "total"}})

	case models.IntentMostExpensive:
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: models.FieldTotalPrice, Value: -1}}}},
			bson.D{{Key: "$limit", Value: 10}},
		)

	case models.IntentHighestQuarter:
		pipeline = highestQuarterPipeline()

	case models.IntentMonthlyAnalysis:
		pipeline = monthlyAnalysisPipeline()

	case models.IntentTrendAnalysis:
		pipeline = mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + models.FieldFiscalYear},
				{Key: "total_spending", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
				{Key: "total_orders", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "avg_order", Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		}

	case models.IntentComparison:
		pipeline = mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + models.FieldFiscalYear},
				{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
				{Key: "max", Value: bson.D{{Key: "$max", Value: "$" + models.FieldTotalPrice}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		}

	case models.IntentTopItems:
		pipeline = append(pipeline,
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + models.FieldItemName},
				{Key: "total_sales", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
				{Key: "quantity", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldQuantity}}},
				{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}}}},
			bson.D{{Key: "$limit", Value: 5}},
		)

	case models.IntentFrequency:
		pipeline = append(pipeline,
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + models.FieldItemName},
				{Key: "frequency", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "total_quantity", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldQuantity}}},
				{Key: "total_spent", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
			}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "frequency", Value: -1}}}},
			bson.D{{Key: "$limit", Value: 5}},
		)

	case models.IntentTopDepartments:
		pipeline = groupTopPipeline(models.FieldDepartmentName, "avg_purchase")

	case models.IntentTopSuppliers:
		pipeline = groupTopPipeline(models.FieldSupplierName, "avg_order")

	case models.IntentAcquisitionMethods:
		pipeline = mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + models.FieldAcquisitionMethod},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
				{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
			}}},
			// no $limit: the formatter caps the display at 10
			bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		}

	default: // list and any unknown label
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: 10}})
	}

	return pipeline
}

// matchConditions renders the filters that map onto $match. Conditions are
// emitted in a fixed order (fiscal year, department, price range) so pipeline
// shapes are directly comparable. The quarter filter has no field to match
// against; only the derived quarter pipelines use it conceptually.
func matchConditions(fs filters.FilterSet) bson.D {
	conds := bson.D{}

	if fs.FiscalYear != "" {
		conds = append(conds, bson.E{Key: models.FieldFiscalYear, Value: fs.FiscalYear})
	}

	if fs.Department != "" {
		conds = append(conds, bson.E{Key: models.FieldDepartmentName, Value: bson.D{
			{Key: "$regex", Value: fs.Department},
			{Key: "$options", Value: "i"},
		}})
	}

	priceRange := bson.D{}
	if fs.MinPrice > 0 {
		priceRange = append(priceRange, bson.E{Key: "$gte", Value: fs.MinPrice})
	}
	if fs.MaxPrice > 0 {
		priceRange = append(priceRange, bson.E{Key: "$lte", Value: fs.MaxPrice})
	}
	if len(priceRange) > 0 {
		conds = append(conds, bson.E{Key: models.FieldTotalPrice, Value: priceRange})
	}

	return conds
}

// highestQuarterPipeline derives the quarter label from the Creation Date
// string (month <=3 -> Q1, <=6 -> Q2, <=9 -> Q3, else Q4) and ranks
// (fiscal year, quarter) buckets by total spending. Unparseable dates produce
// a null month and fall out of meaningful grouping on their own.
func highestQuarterPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "month", Value: bson.D{{Key: "$month", Value: bson.D{
				{Key: "$dateFromString", Value: bson.D{
					{Key: "dateString", Value: "$" + models.FieldCreationDate},
					{Key: "onError", Value: nil},
				}},
			}}}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "quarter", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$lte", Value: bson.A{"$month", 3}}}, "Q1",
				bson.D{{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$lte", Value: bson.A{"$month", 6}}}, "Q2",
					bson.D{{Key: "$cond", Value: bson.A{
						bson.D{{Key: "$lte", Value: bson.A{"$month", 9}}}, "Q3", "Q4",
					}}},
				}}},
			}}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "fiscal_year", Value: "$" + models.FieldFiscalYear},
				{Key: "quarter", Value: "$quarter"},
			}},
			{Key: "total_spending", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_spending", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 5}},
	}
}

// monthlyAnalysisPipeline groups by (year, month) of the parsed Creation Date,
// dropping records whose date failed to parse.
func monthlyAnalysisPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$dateFromString", Value: bson.D{
				{Key: "dateString", Value: "$" + models.FieldCreationDate},
				{Key: "onError", Value: nil},
			}}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$date"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$date"}}},
			}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: 12}},
	}
}

// groupTopPipeline is the shared shape for top_departments and top_suppliers:
// group by the name field, rank by total spending, keep five.
func groupTopPipeline(nameField, avgKey string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + nameField},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + models.FieldTotalPrice}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: avgKey, Value: bson.D{{Key: "$avg", Value: "$" + models.FieldTotalPrice}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 5}},
	}
}
