// Package ingest turns external tabular sources (uploaded CSV text, public
// Google Sheets, HTML tables) into []models.Row and infers which columns the
// analysis should run on.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"datapredictor/pkg/models"
)

// ParseCSV reads header-keyed rows from r. Short records are padded with
// empty strings, long ones truncated to the header width. Returns the rows
// in file order together with the header.
func ParseCSV(r io.Reader) ([]models.Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(records) == 0 {
		return []models.Row{}, []string{}, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	rows := make([]models.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
