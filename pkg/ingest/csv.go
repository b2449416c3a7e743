// Package ingest reads raw survey rows from tabular input. It resolves the
// text and department columns by case-insensitive name matching against a
// small alias set, mirroring how survey exports name their columns.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
	"github.com/staffpulse/feedback-engine/pkg/models"
)

// textAliases are recognized names for the free-text column, normalized form.
var textAliases = []string{
	"comment", "comments", "feedback", "response", "responses",
	"free text comments", "text", "verbatim",
}

// departmentAliases are recognized names for the grouping column.
var departmentAliases = []string{
	"department", "dept", "team", "ward", "unit", "directorate", "division",
}

// ReadCSV parses CSV input into raw rows. The header row is required. When
// no text-like column can be identified the whole input is rejected with
// apperrors.ErrInputFormat; a missing department column leaves Department
// empty so the preprocessor can apply the placeholder.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // survey exports often have ragged rows
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input: %w", apperrors.ErrNoRows)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	textCol := findColumn(header, textAliases)
	if textCol < 0 {
		return nil, fmt.Errorf("columns %v: %w", header, apperrors.ErrInputFormat)
	}
	deptCol := findColumn(header, departmentAliases)

	logger.Debug("resolved input columns",
		zap.Int("text_column", textCol),
		zap.Int("department_column", deptCol))

	var rows []models.Row
	for i := 0; ; i++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed record is skipped, not fatal: the run must still
			// produce results for the remaining valid rows.
			logger.Warn("skipping unreadable row", zap.Int("row", i), zap.Error(err))
			continue
		}
		if textCol >= len(record) {
			logger.Warn("skipping short row", zap.Int("row", i), zap.Int("fields", len(record)))
			continue
		}

		row := models.Row{Index: i, Text: record[textCol]}
		if deptCol >= 0 && deptCol < len(record) {
			row.Department = record[deptCol]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// findColumn returns the index of the first header matching any alias after
// normalization, or -1.
func findColumn(header, aliases []string) int {
	for i, name := range header {
		norm := normalizeHeader(name)
		for _, alias := range aliases {
			if norm == alias {
				return i
			}
		}
	}
	return -1
}

// normalizeHeader lowercases a header name and folds underscores, dashes,
// and repeated whitespace so "Free-Text_Comments" matches "free text comments".
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
