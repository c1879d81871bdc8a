// Package report renders batch results into human-readable documents:
// a markdown summary, its HTML form, and a PDF report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// Renderer builds documents from a batch report.
type Renderer struct{}

// NewRenderer creates a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Markdown renders the batch summary as a markdown document.
func (r *Renderer) Markdown(report mech.BatchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ECC Analysis Report\n\n")
	fmt.Fprintf(&b, "- Batch: `%s`\n", report.BatchID)
	fmt.Fprintf(&b, "- Mode: %s\n", report.Mode)
	fmt.Fprintf(&b, "- Date: %s\n", report.CreatedAt.Time().Format(time.DateOnly))
	fmt.Fprintf(&b, "- Samples: %d (%d failed)\n\n", len(report.Samples), report.FailureCount())

	if report.Mode == mech.ModeTensile {
		b.WriteString("## Tensile indicators\n\n")
		b.WriteString("| Sample | E_eff (GPa) | σ_cr (MPa) | σ_u (MPa) | ε_tu (%) | G_F (kJ/m²) | Δε_sh (%) | CV_σ |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, s := range report.Samples {
			b.WriteString(tensileMarkdownRow(s))
		}
		b.WriteString("\n")
	}

	if len(report.Groups) > 0 {
		b.WriteString("## Compressive strength groups\n\n")
		b.WriteString("| Group | N | σ_mean (MPa) | SD (MPa) | COV (%) |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, g := range report.Groups {
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f |\n", g.Group, g.N, g.Mean, g.SD, g.COV)
		}
		b.WriteString("\n")
	}

	if n := report.FailureCount(); n > 0 {
		b.WriteString("## Failures\n\n")
		for _, s := range report.Samples {
			if s.Failed() {
				fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Error)
			}
		}
	}
	return b.String()
}

func tensileMarkdownRow(s mech.SampleReport) string {
	if s.Failed() {
		return fmt.Sprintf("| %s | — | — | — | — | — | — | — |\n", s.Name)
	}
	cols := []string{s.Name}
	cols = append(cols, fmtOpt(s.Modulus != nil, func() float64 { return s.Modulus.EffectiveGPa() }))
	cols = append(cols, fmtOpt(s.Crack != nil && s.Crack.Detected, func() float64 { return s.Crack.Stress }))
	cols = append(cols, fmtOpt(s.Ultimate != nil, func() float64 { return s.Ultimate.Stress }))
	cols = append(cols, fmtOpt(s.Ultimate != nil, func() float64 { return s.Ultimate.TerminalStrain() * 100 }))
	cols = append(cols, fmtOpt(s.Energy != nil, func() float64 { return s.Energy.FractureEnergy }))
	cols = append(cols, fmtOpt(s.Ductility != nil && s.Ductility.Applicable, func() float64 { return s.Ductility.HardeningCapacity * 100 }))
	cols = append(cols, fmtOpt(s.Ductility != nil && s.Ductility.Applicable, func() float64 { return s.Ductility.PlateauCV }))
	return "| " + strings.Join(cols, " | ") + " |\n"
}

func fmtOpt(defined bool, value func() float64) string {
	if !defined {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", value())
}

// HTML renders the markdown summary as an HTML fragment.
func (r *Renderer) HTML(report mech.BatchReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(r.Markdown(report)), p, renderer)
}
