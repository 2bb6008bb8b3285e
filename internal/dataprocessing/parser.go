package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "donorpulse/internal/errors"
)

// Decode reads a tabular donation export and returns its raw rows. The
// container format is chosen from the filename extension: .csv, .xlsx
// and .xls are supported. An unrecognized format is the one fatal
// ingestion error; everything past decoding is per-row and silent.
func Decode(r io.Reader, filename string) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(r)
	case ".xlsx", ".xls":
		return decodeExcel(r)
	default:
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unsupported file format: %q", filepath.Ext(filename)), nil)
	}
}

func decodeCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV input", err)
	}
	if len(records) == 0 {
		return []RawRow{}, nil
	}

	header := records[0]
	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(RawRow, len(header))
		empty := true
		for i, name := range header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
			if strings.TrimSpace(record[i]) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func decodeExcel(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("Excel workbook contains no sheets", nil)
	}

	// Data is expected on the first sheet, header on its first row.
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read Excel sheet", err)
	}
	if len(cells) == 0 {
		return []RawRow{}, nil
	}

	header := cells[0]
	rows := make([]RawRow, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := make(RawRow, len(header))
		empty := true
		for i, name := range header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
			if strings.TrimSpace(record[i]) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
