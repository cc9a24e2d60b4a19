package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sproutlens/app"
)

// ReportWriter renders correction aggregates as an .xlsx workbook for expert
// review outside the tool
type ReportWriter struct{}

// NewReportWriter creates a correction report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteCorrectionReport writes one sheet per grouping dimension plus a
// summary sheet, and streams the workbook to w
func (rw *ReportWriter) WriteCorrectionReport(w io.Writer, agg *app.CorrectionAggregate) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Total corrections")
	f.SetCellValue(summary, "B1", agg.Total)
	f.SetCellValue(summary, "A2", "Mean severity weight")
	f.SetCellValue(summary, "B2", agg.MeanSeverity)
	f.SetCellValue(summary, "A3", "Median severity weight")
	f.SetCellValue(summary, "B3", agg.MedianSeverity)

	byType, err := f.NewSheet("By Type")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetCellValue("By Type", "A1", "Correction type")
	f.SetCellValue("By Type", "B1", "Count")
	row := 2
	for t, n := range agg.ByType {
		f.SetCellValue("By Type", fmt.Sprintf("A%d", row), string(t))
		f.SetCellValue("By Type", fmt.Sprintf("B%d", row), n)
		row++
	}

	if _, err := f.NewSheet("By Severity"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetCellValue("By Severity", "A1", "Severity")
	f.SetCellValue("By Severity", "B1", "Count")
	row = 2
	for s, n := range agg.BySeverity {
		f.SetCellValue("By Severity", fmt.Sprintf("A%d", row), string(s))
		f.SetCellValue("By Severity", fmt.Sprintf("B%d", row), n)
		row++
	}

	if _, err := f.NewSheet("By Target"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetCellValue("By Target", "A1", "Target type")
	f.SetCellValue("By Target", "B1", "Count")
	row = 2
	for t, n := range agg.ByTarget {
		f.SetCellValue("By Target", fmt.Sprintf("A%d", row), string(t))
		f.SetCellValue("By Target", fmt.Sprintf("B%d", row), n)
		row++
	}

	f.SetActiveSheet(byType)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
