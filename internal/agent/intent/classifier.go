// internal/agent/intent/classifier.go

// Package intent classifies a question into one of the fixed query intents.
package intent

import (
	"strings"

	"procurement-assistant/internal/models"
)

// rule pairs an intent label with its keyword predicate. Rules are evaluated
// in order and the first match wins, so compound conditions must stay ahead of
// the single-keyword ones they would otherwise be shadowed by (e.g. "total
// spending trend" has to hit trend_analysis before "total" can claim sum).
type rule struct {
	label models.IntentLabel
	match func(q string) bool
}

var rules = []rule{
	{models.IntentHighestQuarter, func(q string) bool {
		return has(q, "quarter") && (has(q, "highest") || has(q, "most")) && has(q, "spending")
	}},
	{models.IntentMonthlyAnalysis, func(q string) bool {
		return (has(q, "month") || has(q, "monthly")) && (has(q, "trend") || has(q, "analysis"))
	}},
	{models.IntentTrendAnalysis, func(q string) bool {
		return has(q, "trend") || has(q, "over time")
	}},
	{models.IntentComparison, func(q string) bool {
		return has(q, "compare") && (has(q, "between") || has(q, "vs"))
	}},
	{models.IntentMostExpensive, func(q string) bool {
		return has(q, "expensive") && (has(q, "most") || has(q, "top"))
	}},
	{models.IntentTopItems, func(q string) bool {
		return (has(q, "highest") || has(q, "most")) && (has(q, "sales") || has(q, "item") || has(q, "product"))
	}},
	{models.IntentFrequency, func(q string) bool {
		return has(q, "frequently") || has(q, "frequent") || has(q, "most ordered") || has(q, "most times")
	}},
	{models.IntentSum, func(q string) bool {
		return has(q, "total") || has(q, "spending")
	}},
	{models.IntentAverage, func(q string) bool {
		return has(q, "average")
	}},
	{models.IntentCount, func(q string) bool {
		return has(q, "count") || has(q, "how many")
	}},
	{models.IntentTopDepartments, func(q string) bool {
		return has(q, "department") && has(q, "most")
	}},
	{models.IntentTopSuppliers, func(q string) bool {
		return has(q, "supplier")
	}},
	{models.IntentAcquisitionMethods, func(q string) bool {
		return has(q, "acquisition method")
	}},
}

func has(q, substr string) bool {
	return strings.Contains(q, substr)
}

// Classify returns the intent of the first matching rule, or IntentList when
// nothing matches. Classification is pure substring containment over the
// lower-cased text; there is no tokenization or negation handling.
func Classify(question string) models.IntentLabel {
	q := strings.ToLower(question)
	for _, r := range rules {
		if r.match(q) {
			return r.label
		}
	}
	return models.IntentList
}
