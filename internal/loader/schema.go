// internal/loader/schema.go
package loader

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.mongodb.org/mongo-driver/bson"

	apperrors "procurement-assistant/internal/common/errors"
)

// recordSchema describes the minimum shape a record must have to be useful to
// the aggregation layer. Descriptive columns may be empty; the numeric fields
// must be numbers and the fiscal year must look like "2013-2014".
const recordSchema = `{
	"type": "object",
	"required": ["Fiscal Year", "Total Price", "Quantity", "Unit Price"],
	"properties": {
		"Fiscal Year": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{4}$"},
		"Total Price": {"type": "number"},
		"Unit Price": {"type": "number"},
		"Quantity": {"type": "number"},
		"Department Name": {"type": "string"},
		"Supplier Name": {"type": "string"},
		"Item Name": {"type": "string"},
		"Acquisition Method": {"type": "string"},
		"Creation Date": {"type": "string"}
	}
}`

// Validate splits records into valid and invalid against recordSchema. Invalid
// records are returned with the first failure reason for logging; the caller
// decides whether to drop or abort.
func Validate(records []bson.M) (valid []bson.M, invalid []string, err error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	if err != nil {
		return nil, nil, apperrors.NewRecordValidationError(err.Error())
	}

	valid = make([]bson.M, 0, len(records))
	for i, record := range records {
		result, verr := schema.Validate(gojsonschema.NewGoLoader(record))
		if verr != nil {
			invalid = append(invalid, fmt.Sprintf("record %d: %v", i, verr))
			continue
		}
		if !result.Valid() {
			reasons := make([]string, 0, len(result.Errors()))
			for _, re := range result.Errors() {
				reasons = append(reasons, re.String())
			}
			invalid = append(invalid, fmt.Sprintf("record %d: %s", i, strings.Join(reasons, "; ")))
			continue
		}
		valid = append(valid, record)
	}

	return valid, invalid, nil
}
