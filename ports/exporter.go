package ports

import (
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// ResultExporter renders a batch report into a spreadsheet workbook.
type ResultExporter interface {
	// Bytes returns the workbook as xlsx bytes.
	Bytes(report mech.BatchReport) ([]byte, error)
	// Export writes the workbook to a file path.
	Export(report mech.BatchReport, path string) error
}

// ReportRenderer renders a batch report into human-readable documents.
type ReportRenderer interface {
	Markdown(report mech.BatchReport) string
	HTML(report mech.BatchReport) []byte
	PDF(report mech.BatchReport) ([]byte, error)
}
