package excel

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"drawforge/domain/draw"
	"drawforge/domain/stats"
	"drawforge/internal/errors"
	"drawforge/ports"
)

// ReportWriter exports an analysis report to an .xlsx workbook: one summary
// sheet plus one frequency sheet per value class.
type ReportWriter struct{}

// NewReportWriter creates a report writer.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Export writes the workbook to path, overwriting any existing file.
func (w *ReportWriter) Export(batch *draw.Batch, report *stats.AnalysisReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := writeSummary(f, batch, report); err != nil {
		return err
	}
	if err := writeFrequencies(f, "Numbers", report.Numbers); err != nil {
		return err
	}
	if err := writeFrequencies(f, "Stars", report.Stars); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ExportError(path, err)
	}
	log.Printf("[Excel] report for batch %s written to %s", batch.ID, path)
	return nil
}

func writeSummary(f *excelize.File, batch *draw.Batch, report *stats.AnalysisReport) error {
	rows := [][]interface{}{
		{"Batch", batch.ID.String()},
		{"Generated at", batch.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Sample size", report.SampleSize},
		{},
		{"", "Numbers", "Stars"},
		{"Expected frequency", report.Numbers.ExpectedFreq, report.Stars.ExpectedFreq},
		{"Chi-square", report.Numbers.ChiSquare, report.Stars.ChiSquare},
		{"P-value", report.Numbers.PValue, report.Stars.PValue},
		{"Standard deviation", report.Numbers.StdDev, report.Stars.StdDev},
		{"Variation %", report.Numbers.VariationPct, report.Stars.VariationPct},
		{"Least frequent", extremeCell(report.Numbers.Min), extremeCell(report.Stars.Min)},
		{"Most frequent", extremeCell(report.Numbers.Max), extremeCell(report.Stars.Max)},
		{"Verdict", report.Numbers.Verdict, report.Stars.Verdict},
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue("Summary", cell, value); err != nil {
				return fmt.Errorf("failed to write summary cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func writeFrequencies(f *excelize.File, sheet string, class stats.ClassReport) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := f.SetCellValue(sheet, "A1", "Value"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", "Count"); err != nil {
		return err
	}

	for v := 1; v <= class.Frequencies.MaxValue; v++ {
		row := v + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), v); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), class.Frequencies.Count(v)); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}

func extremeCell(e stats.Extreme) string {
	return fmt.Sprintf("%s (x%d)", e.FormatValues(), e.Count)
}

var _ ports.ReportExporter = (*ReportWriter)(nil)
