// internal/agent/filters/filters.go

// Package filters derives structured filter criteria from raw question text.
package filters

import "strings"

// FilterSet holds the constraints extracted from a question. Zero values mean
// the filter is absent; extraction never sets a price filter to zero.
type FilterSet struct {
	FiscalYear string
	Quarter    string
	MinPrice   int
	MaxPrice   int
	Department string // case-insensitive regex pattern for Department Name
}

// HasMatchConditions reports whether any filter translates into a $match
// condition (quarter never does; it only exists for future pipeline use).
func (f FilterSet) HasMatchConditions() bool {
	return f.FiscalYear != "" || f.Department != "" || f.MinPrice > 0 || f.MaxPrice > 0
}

// Extract derives a FilterSet from the question text. Each category is checked
// independently with first-match-wins ordering inside the category, so the
// result is deterministic and extraction is pure.
//
// The calendar years 2014 and 2015 both map to fiscal year "2014-2015" because
// that is how the source dataset labels them. Not a bug.
func Extract(question string) FilterSet {
	q := strings.ToLower(question)

	var fs FilterSet

	// Year detection runs on the raw text; the substrings are all digits.
	switch {
	case strings.Contains(question, "2013"):
		fs.FiscalYear = "2013-2014"
	case strings.Contains(question, "2012"):
		fs.FiscalYear = "2012-2013"
	case strings.Contains(question, "2014"):
		fs.FiscalYear = "2014-2015"
	case strings.Contains(question, "2015"):
		fs.FiscalYear = "2014-2015"
	}

	switch {
	case strings.Contains(q, "q1") || strings.Contains(q, "first quarter"):
		fs.Quarter = "Q1"
	case strings.Contains(q, "q2") || strings.Contains(q, "second quarter"):
		fs.Quarter = "Q2"
	case strings.Contains(q, "q3") || strings.Contains(q, "third quarter"):
		fs.Quarter = "Q3"
	case strings.Contains(q, "q4") || strings.Contains(q, "fourth quarter"):
		fs.Quarter = "Q4"
	}

	// Price range: the "over" branch wins when both phrasings appear.
	if strings.Contains(q, "over") && (strings.Contains(q, "million") || strings.Contains(q, "1000000")) {
		fs.MinPrice = 1000000
	} else if strings.Contains(q, "under") && (strings.Contains(q, "thousand") || strings.Contains(q, "1000")) {
		fs.MaxPrice = 1000
	}

	// "it " keeps the trailing space so "item" or "itinerary" don't match.
	switch {
	case strings.Contains(q, "it ") || strings.Contains(q, "information technology"):
		fs.Department = "Information Technology"
	case strings.Contains(q, "health"):
		fs.Department = "Health"
	}

	return fs
}
