package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"simrng/domain/core"
)

// ReadSamples reads a numeric sample column from the first sheet of an xlsx
// workbook. column names the header to read; empty selects "value", falling
// back to the first column. Blank cells are skipped.
func ReadSamples(r io.Reader, column string) ([]float64, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptySample
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, core.ErrEmptySample
	}
	header, err := rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header, column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	var samples []float64
	line := 1
	for rows.Next() {
		line++
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if idx >= len(cols) || strings.TrimSpace(cols[idx]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cols[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		samples = append(samples, v)
	}
	if len(samples) == 0 {
		return nil, core.ErrEmptySample
	}
	return samples, nil
}

func columnIndex(header []string, column string) int {
	want := column
	if want == "" {
		want = "value"
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	if column == "" && len(header) > 0 {
		return 0
	}
	return -1
}
