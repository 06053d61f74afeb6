// Package export writes workbooks downloaded from the export endpoints.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want xlsx or csv)", s)
	}
}

// FileName returns the default output name for a resource, e.g. "landlords.csv".
func FileName(resource string, f Format) string {
	return resource + "." + string(f)
}

// Rows returns the rows of the first sheet in the workbook.
func Rows(workbook []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ToCSV writes the first sheet of the workbook as CSV. Short rows are padded to
// the widest row so every record has the same number of fields.
func ToCSV(workbook []byte, w io.Writer) (int, error) {
	rows, err := Rows(workbook)
	if err != nil {
		return 0, err
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	cw := csv.NewWriter(w)
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to write csv: %w", err)
	}
	return len(rows), nil
}

// Save writes the workbook to path in format f and returns the number of rows in
// its first sheet. XLSX output is the downloaded workbook unchanged.
func Save(workbook []byte, path string, f Format) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if f == FormatXLSX {
		rows, err := Rows(workbook)
		if err != nil {
			return 0, err
		}
		if err := os.WriteFile(path, workbook, 0o644); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return len(rows), nil
	}

	var buf bytes.Buffer
	n, err := ToCSV(workbook, &buf)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}
