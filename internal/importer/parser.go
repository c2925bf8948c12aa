package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one parsed record keyed by header name, values as-is.
type RawRow map[string]string

// ErrEmptyFile is returned when the uploaded file has no data rows.
var ErrEmptyFile = errors.New("file has no data rows")

// ParseFile converts uploaded bytes into a sequence of row mappings.
// The format is sniffed from the filename extension: a ".csv" suffix is
// parsed as CSV with the header row as keys; anything else is treated as a
// spreadsheet workbook and only its first sheet is read. Malformed bytes
// fail the whole call; there is no partial recovery at this layer.
func ParseFile(filename string, r io.Reader) ([]RawRow, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return parseCSV(r)
	}
	return parseWorkbook(r)
}

func parseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows in the wild carry trailing delimiters; accept ragged records.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = stripBOM(headers[0])
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(RawRow, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseWorkbook reads the first sheet of an XLSX workbook. Later sheets are
// ignored.
func parseWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(RawRow, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// stripBOM removes a UTF-8 byte order mark from the first CSV header, a
// common artifact of spreadsheet exports on Windows.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
