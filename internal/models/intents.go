// internal/models/intents.go
package models

// IntentLabel is the classified category of a user question. It selects both
// the aggregation pipeline shape and the response layout.
type IntentLabel string

const (
	IntentSum                IntentLabel = "sum"
	IntentAverage            IntentLabel = "average"
	IntentCount              IntentLabel = "count"
	IntentMostExpensive      IntentLabel = "most_expensive"
	IntentHighestQuarter     IntentLabel = "highest_quarter"
	IntentMonthlyAnalysis    IntentLabel = "monthly_analysis"
	IntentTrendAnalysis      IntentLabel = "trend_analysis"
	IntentComparison         IntentLabel = "comparison"
	IntentTopItems           IntentLabel = "top_items"
	IntentFrequency          IntentLabel = "frequency"
	IntentTopDepartments     IntentLabel = "top_departments"
	IntentTopSuppliers       IntentLabel = "top_suppliers"
	IntentAcquisitionMethods IntentLabel = "acquisition_methods"
	IntentList               IntentLabel = "list"
)
