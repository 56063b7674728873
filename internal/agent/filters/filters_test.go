// internal/agent/filters/filters_test.go
package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FiscalYear(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"2013 maps to 2013-2014", "What is the total spending in 2013?", "2013-2014"},
		{"2012 maps to 2012-2013", "Show purchases in 2012", "2012-2013"},
		{"2014 maps to 2014-2015", "What is the total spending in 2014?", "2014-2015"},
		{"2015 collapses to 2014-2015", "How many purchases in 2015?", "2014-2015"},
		{"2013 wins over 2014 by priority", "Compare spending between 2014 and 2013", "2013-2014"},
		{"no year", "What is the total spending?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Extract(tt.question)
			assert.Equal(t, tt.expected, fs.FiscalYear)
		})
	}
}

func TestExtract_Quarter(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"q1 shorthand", "Spending in Q1 2013", "Q1"},
		{"spelled-out second quarter", "Show the Second Quarter numbers", "Q2"},
		{"q3 shorthand", "q3 spending please", "Q3"},
		{"fourth quarter", "purchases in the fourth quarter", "Q4"},
		{"first match wins", "compare q1 and q3", "Q1"},
		{"no quarter", "total spending", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Extract(tt.question)
			assert.Equal(t, tt.expected, fs.Quarter)
		})
	}
}

func TestExtract_PriceRange(t *testing.T) {
	t.Run("over a million sets min price", func(t *testing.T) {
		fs := Extract("Show purchases over 1 million dollars")
		assert.Equal(t, 1000000, fs.MinPrice)
		assert.Zero(t, fs.MaxPrice)
	})

	t.Run("under a thousand sets max price", func(t *testing.T) {
		fs := Extract("Find orders under a thousand")
		assert.Zero(t, fs.MinPrice)
		assert.Equal(t, 1000, fs.MaxPrice)
	})

	t.Run("literal 1000000 works", func(t *testing.T) {
		fs := Extract("purchases over 1000000")
		assert.Equal(t, 1000000, fs.MinPrice)
	})

	t.Run("over branch wins when both phrasings appear", func(t *testing.T) {
		fs := Extract("items over a million or under a thousand")
		assert.Equal(t, 1000000, fs.MinPrice)
		assert.Zero(t, fs.MaxPrice)
	})
}

func TestExtract_Department(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"it with trailing space", "Show me IT department purchases", "Information Technology"},
		{"information technology spelled out", "information technology spending", "Information Technology"},
		{"health", "health department orders", "Health"},
		{"it wins over health", "it and health spending", "Information Technology"},
		{"item does not trigger IT", "most ordered items", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Extract(tt.question)
			assert.Equal(t, tt.expected, fs.Department)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	question := "Show IT purchases over 1 million in Q2 2013"
	first := Extract(question)
	second := Extract(question)
	assert.Equal(t, first, second)
}

func TestExtract_CategoriesIndependent(t *testing.T) {
	fs := Extract("Show IT purchases over 1 million in Q2 2013")
	assert.Equal(t, "2013-2014", fs.FiscalYear)
	assert.Equal(t, "Q2", fs.Quarter)
	assert.Equal(t, 1000000, fs.MinPrice)
	assert.Equal(t, "Information Technology", fs.Department)
	assert.True(t, fs.HasMatchConditions())
}

func TestExtract_Empty(t *testing.T) {
	fs := Extract("hello there")
	assert.Equal(t, FilterSet{}, fs)
	assert.False(t, fs.HasMatchConditions())
}
