// internal/agent/formatter/formatter.go

// Package formatter renders aggregation results into Markdown reports. Each
// intent has its own layout; the output is purely a function of the intent and
// the result records.
package formatter

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"procurement-assistant/internal/models"
)

// NoResultsMessage is returned for empty result sets and failed executions
// alike — a failed query is presented to the user as "nothing found", not as
// an internal error.
const NoResultsMessage = "No results found. Try rephrasing your question or check the date range."

// Format renders the results for the given intent. A nil or empty result set
// yields NoResultsMessage.
func Format(results []bson.M, label models.IntentLabel) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	switch label {
	case models.IntentSum:
		return fmt.Sprintf("**Total Spending:** %s", money(results[0]["total"]))

	case models.IntentAverage:
		return fmt.Sprintf("**Average Purchase Amount:** %s", money(results[0]["average"]))

	case models.IntentCount:
		return fmt.Sprintf("**Total Number of Purchases:** %s", count(results[0]["total"]))

	case models.IntentMostExpensive:
		return formatMostExpensive(results)

	case models.IntentHighestQuarter:
		return formatHighestQuarter(results)

	case models.IntentMonthlyAnalysis:
		return formatMonthlyAnalysis(results)

	case models.IntentTrendAnalysis:
		return formatTrendAnalysis(results)

	case models.IntentComparison:
		return formatComparison(results)

	case models.IntentTopItems:
		return formatTopItems(results)

	case models.IntentFrequency:
		return formatFrequency(results)

	case models.IntentTopDepartments:
		return formatTopDepartments(results)

	case models.IntentTopSuppliers:
		return formatTopSuppliers(results)

	case models.IntentAcquisitionMethods:
		return formatAcquisitionMethods(results)

	default:
		return formatGenericList(results)
	}
}

func formatMostExpensive(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Top 10 Most Expensive Purchases:\n\n")
	for i, item := range results {
		fmt.Fprintf(&b, "**%d.** %s\n", i+1, str(item, models.FieldItemName))
		fmt.Fprintf(&b, "   - Price: %s\n", money(item[models.FieldTotalPrice]))
		fmt.Fprintf(&b, "   - Supplier: %s\n", str(item, models.FieldSupplierName))
		fmt.Fprintf(&b, "   - Department: %s\n\n", str(item, models.FieldDepartmentName))
	}
	return b.String()
}

func formatHighestQuarter(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Quarterly Spending Analysis:\n\n")
	for i, item := range results {
		id := groupKey(item)
		fmt.Fprintf(&b, "**%d. %s - %s**\n", i+1, str(id, "fiscal_year"), str(id, "quarter"))
		fmt.Fprintf(&b, "   - Total: %s\n", money(item["total_spending"]))
		fmt.Fprintf(&b, "   - Orders: %s\n\n", count(item["count"]))
	}
	return b.String()
}

func formatMonthlyAnalysis(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Monthly Spending Trend:\n\n")
	for _, item := range results {
		id := groupKey(item)
		fmt.Fprintf(&b, "**%d-%02d:**\n", asInt(id["year"]), asInt(id["month"]))
		fmt.Fprintf(&b, "   - Total: %s\n", money(item["total"]))
		fmt.Fprintf(&b, "   - Orders: %s\n", count(item["count"]))
		fmt.Fprintf(&b, "   - Average: %s\n\n", money(item["avg"]))
	}
	return b.String()
}

func formatTrendAnalysis(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Spending Trend Over Time:\n\n")
	for _, item := range results {
		fmt.Fprintf(&b, "**%v:**\n", item["_id"])
		fmt.Fprintf(&b, "   - Total Spending: %s\n", money(item["total_spending"]))
		fmt.Fprintf(&b, "   - Total Orders: %s\n", count(item["total_orders"]))
		fmt.Fprintf(&b, "   - Average Order: %s\n\n", money(item["avg_order"]))
	}
	return b.String()
}

func formatComparison(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Year-over-Year Comparison:\n\n")
	for _, item := range results {
		fmt.Fprintf(&b, "**%v:**\n", item["_id"])
		fmt.Fprintf(&b, "   - Total: %s\n", money(item["total"]))
		fmt.Fprintf(&b, "   - Count: %s\n", count(item["count"]))
		fmt.Fprintf(&b, "   - Average: %s\n", money(item["avg"]))
		fmt.Fprintf(&b, "   - Maximum: %s\n\n", money(item["max"]))
	}
	return b.String()
}

func formatTopItems(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Items with Highest Sales:\n\n")
	for i, item := range results {
		name := keyName(item)
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, name)
		fmt.Fprintf(&b, "   - Total Sales: %s\n", money(item["total_sales"]))
		fmt.Fprintf(&b, "   - Quantity: %s\n", count(item["quantity"]))
		fmt.Fprintf(&b, "   - Orders: %d\n\n", asInt(item["orders"]))
	}
	return b.String()
}

func formatFrequency(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Most Frequently Ordered Items:\n\n")
	for i, item := range results {
		name := keyName(item)
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, name)
		fmt.Fprintf(&b, "   - Ordered %d times\n", asInt(item["frequency"]))
		fmt.Fprintf(&b, "   - Total Quantity: %s\n", count(item["total_quantity"]))
		fmt.Fprintf(&b, "   - Total Spent: %s\n\n", money(item["total_spent"]))
	}
	return b.String()
}

func formatTopDepartments(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Top Departments by Spending:\n\n")
	for i, item := range results {
		fmt.Fprintf(&b, "**%d. %v**\n", i+1, item["_id"])
		fmt.Fprintf(&b, "   - Total: %s\n", money(item["total"]))
		fmt.Fprintf(&b, "   - Orders: %s\n", count(item["count"]))
		fmt.Fprintf(&b, "   - Average Purchase: %s\n\n", money(item["avg_purchase"]))
	}
	return b.String()
}

func formatTopSuppliers(results []bson.M) string {
	var b strings.Builder
	b.WriteString("## Top Suppliers by Revenue:\n\n")
	for i, item := range results {
		fmt.Fprintf(&b, "**%d. %v**\n", i+1, item["_id"])
		fmt.Fprintf(&b, "   - Total Revenue: %s\n", money(item["total"]))
		fmt.Fprintf(&b, "   - Orders: %s\n", count(item["count"]))
		fmt.Fprintf(&b, "   - Average Order: %s\n\n", money(item["avg_order"]))
	}
	return b.String()
}

func formatAcquisitionMethods(results []bson.M) string {
	if len(results) > 10 {
		results = results[:10]
	}
	var b strings.Builder
	b.WriteString("## Acquisition Methods Analysis:\n\n")
	for _, item := range results {
		name := keyName(item)
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "**%s:**\n", name)
		fmt.Fprintf(&b, "   - Orders: %s\n", count(item["count"]))
		fmt.Fprintf(&b, "   - Total: %s\n", money(item["total"]))
		fmt.Fprintf(&b, "   - Average: %s\n\n", money(item["avg"]))
	}
	return b.String()
}

func formatGenericList(results []bson.M) string {
	if len(results) > 10 {
		results = results[:10]
	}
	var b strings.Builder
	b.WriteString("## Query Results:\n\n")
	for i, item := range results {
		fmt.Fprintf(&b, "%d. Item: %s\n", i+1, str(item, models.FieldItemName))
		fmt.Fprintf(&b, "   Price: %s\n\n", money(item[models.FieldTotalPrice]))
	}
	return b.String()
}

// groupKey returns the compound _id document of a grouped record, or an empty
// map when the record has a scalar key.
func groupKey(item bson.M) bson.M {
	if id, ok := item["_id"].(bson.M); ok {
		return id
	}
	return bson.M{}
}

// keyName returns the scalar _id of a grouped record as a display string.
// Empty for nil or empty keys so callers can skip those rows.
func keyName(item bson.M) string {
	switch v := item["_id"].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func str(m bson.M, key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return "N/A"
}

// asFloat tolerates the numeric BSON types an aggregation can hand back.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func asInt(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	default:
		return 0
	}
}

// money renders a currency amount with thousands separators and two decimals,
// e.g. $5,000,000,000.00.
func money(v interface{}) string {
	f := asFloat(v)
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	s := fmt.Sprintf("%.2f", f)
	intPart, frac, _ := strings.Cut(s, ".")
	return "$" + sign + groupDigits(intPart) + "." + frac
}

// count renders an integer with thousands separators, e.g. 346,018.
func count(v interface{}) string {
	n := asInt(v)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + groupDigits(fmt.Sprintf("%d", n))
}

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
