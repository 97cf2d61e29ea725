package ports

import (
	"drawforge/domain/draw"
	"drawforge/domain/stats"
)

// ReportExporter writes a batch's analysis report to an external document
// format (e.g. an Excel workbook).
type ReportExporter interface {
	Export(batch *draw.Batch, report *stats.AnalysisReport, path string) error
}
