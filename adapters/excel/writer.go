// Package excel exports generations and their evaluation to xlsx workbooks
// and reads sample columns back.
package excel

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	domainstats "simrng/domain/stats"
	"simrng/internal/session"
)

// Sheet names
const (
	SheetSamples    = "Samples"
	SheetHistogram  = "Histogram"
	SheetChiSquared = "ChiSquared"
)

// MaxSampleRows is the number of samples that fit below the header row.
const MaxSampleRows = excelize.TotalRows - 1

// WriteWorkbook writes gen, its histogram and test result to w. Samples past
// MaxSampleRows are left out.
func WriteWorkbook(w io.Writer, gen *session.Generation, hist domainstats.Histogram, result domainstats.TestResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSamples); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSamples(f, gen); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetHistogram); err != nil {
		return fmt.Errorf("failed to create histogram sheet: %w", err)
	}
	if err := writeHistogram(f, hist); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetChiSquared); err != nil {
		return fmt.Errorf("failed to create chi-squared sheet: %w", err)
	}
	if err := writeResult(f, gen, result); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSamples(f *excelize.File, gen *session.Generation) error {
	sw, err := f.NewStreamWriter(SheetSamples)
	if err != nil {
		return fmt.Errorf("failed to open sample stream: %w", err)
	}
	if err := sw.SetRow("A1", []interface{}{"index", "value"}); err != nil {
		return err
	}
	n := min(len(gen.Samples), MaxSampleRows)
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{i + 1, gen.Samples[i]}); err != nil {
			return fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}
	return sw.Flush()
}

func writeHistogram(f *excelize.File, hist domainstats.Histogram) error {
	if err := f.SetSheetRow(SheetHistogram, "A1", &[]interface{}{"lower", "upper", "midpoint", "count"}); err != nil {
		return err
	}
	for i, count := range hist.Counts {
		lo, hi := hist.Bounds(i)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetHistogram, cell, &[]interface{}{lo, hi, hist.Midpoint(i), count}); err != nil {
			return fmt.Errorf("failed to write bin %d: %w", i, err)
		}
	}
	return nil
}

func writeResult(f *excelize.File, gen *session.Generation, result domainstats.TestResult) error {
	summary := [][]interface{}{
		{"distribution", gen.Distribution.String()},
		{"seed", strconv.FormatUint(gen.Seed, 10)},
		{"source", gen.Source},
		{"samples", len(gen.Samples)},
		{"sample_hash", gen.Hash.String()},
		{"alpha", result.Alpha},
		{"degrees_of_freedom", result.DegreesOfFreedom},
		{"calculated", result.Calculated},
		{"critical", result.Critical},
		{"p_value", result.PValue},
		{"reject", result.Reject},
	}
	row := 1
	for _, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetChiSquared, cell, &line); err != nil {
			return err
		}
		row++
	}

	row++
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(SheetChiSquared, cell, &[]interface{}{"lower", "upper", "fo", "fe"}); err != nil {
		return err
	}
	for _, iv := range result.Intervals {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetChiSquared, cell, &[]interface{}{iv.Lower, iv.Upper, iv.Observed, iv.Expected}); err != nil {
			return err
		}
	}
	return nil
}
