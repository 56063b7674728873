// internal/loader/csv.go

// Package loader imports the procurement CSV extract into the purchases
// collection. Records keep the original column headers as field names so the
// aggregation layer can reference them verbatim.
package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	apperrors "procurement-assistant/internal/common/errors"
	"procurement-assistant/internal/models"
)

// numericFields are cleaned from display strings like "$1,234.50" into plain
// float64 values before insert.
var numericFields = map[string]bool{
	models.FieldQuantity:   true,
	models.FieldUnitPrice:  true,
	models.FieldTotalPrice: true,
}

// FindDataFile returns the first path in the list that exists on disk.
func FindDataFile(paths []string) (string, error) {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", apperrors.NewDataFileNotFoundError(paths)
}

// ParseCSV reads the extract into insertable documents. The source file has
// embedded quotes and ragged rows, hence LazyQuotes and per-record field
// counts. Rows whose cells are all empty are dropped.
func ParseCSV(r io.Reader) ([]bson.M, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []bson.M
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		doc, empty := rowToDoc(header, row)
		if empty {
			continue
		}
		records = append(records, doc)
	}

	return records, nil
}

func rowToDoc(header, row []string) (bson.M, bool) {
	doc := bson.M{}
	empty := true
	for i, col := range header {
		if col == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		if value != "" {
			empty = false
		}
		if numericFields[col] {
			doc[col] = cleanNumber(value)
		} else {
			doc[col] = value
		}
	}
	return doc, empty
}

// cleanNumber strips currency formatting and parses the remainder. Anything
// unparseable becomes 0 so a stray cell cannot poison an aggregation.
func cleanNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
