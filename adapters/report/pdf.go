package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// PDF renders the batch report as an A4 PDF document.
func (r *Renderer) PDF(report mech.BatchReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "ECC Analysis Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Batch: %s", report.BatchID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Mode: %s", report.Mode))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", report.CreatedAt.Time().Format(time.DateOnly)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Samples: %d (%d failed)", len(report.Samples), report.FailureCount()))
	pdf.Ln(10)

	if report.Mode == mech.ModeTensile {
		r.tensileTable(pdf, report)
	}
	if len(report.Groups) > 0 {
		r.groupTable(pdf, report)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) tensileTable(pdf *gofpdf.Fpdf, report mech.BatchReport) {
	headers := []string{"Sample", "E_eff (GPa)", "s_cr (MPa)", "s_u (MPa)", "e_tu (%)", "G_F (kJ/m2)", "Hardening (%)", "CV"}
	widths := []float64{60, 28, 28, 28, 28, 30, 30, 24}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range report.Samples {
		cells := pdfTensileCells(s)
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func pdfTensileCells(s mech.SampleReport) []string {
	if s.Failed() {
		return []string{s.Name, "err", "err", "err", "err", "err", "err", "err"}
	}
	return []string{
		s.Name,
		fmtOpt(s.Modulus != nil, func() float64 { return s.Modulus.EffectiveGPa() }),
		fmtOpt(s.Crack != nil && s.Crack.Detected, func() float64 { return s.Crack.Stress }),
		fmtOpt(s.Ultimate != nil, func() float64 { return s.Ultimate.Stress }),
		fmtOpt(s.Ultimate != nil, func() float64 { return s.Ultimate.TerminalStrain() * 100 }),
		fmtOpt(s.Energy != nil, func() float64 { return s.Energy.FractureEnergy }),
		fmtOpt(s.Ductility != nil && s.Ductility.Applicable, func() float64 { return s.Ductility.HardeningCapacity * 100 }),
		fmtOpt(s.Ductility != nil && s.Ductility.Applicable, func() float64 { return s.Ductility.PlateauCV }),
	}
}

func (r *Renderer) groupTable(pdf *gofpdf.Fpdf, report mech.BatchReport) {
	headers := []string{"Group", "N", "Mean (MPa)", "SD (MPa)", "COV (%)"}
	widths := []float64{80, 20, 36, 36, 36}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, g := range report.Groups {
		cells := []string{
			g.Group,
			fmt.Sprintf("%d", g.N),
			fmt.Sprintf("%.2f", g.Mean),
			fmt.Sprintf("%.2f", g.SD),
			fmt.Sprintf("%.2f", g.COV),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
