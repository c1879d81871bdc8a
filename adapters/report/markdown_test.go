package report

import (
	"strings"
	"testing"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

func sampleBatch() mech.BatchReport {
	return mech.BatchReport{
		BatchID:   core.NewBatchID(),
		Mode:      mech.ModeTensile,
		CreatedAt: core.Now(),
		Samples: []mech.SampleReport{
			{
				Name:     "ecc-1",
				Modulus:  &mech.ModulusResult{InitialModulus: 22000, EffectiveModulus: 18000},
				Crack:    &mech.CrackPoint{Strain: 0.0002, Stress: 3.6, Detected: true},
				Ultimate: &mech.UltimatePoint{Strain: 0.035, Stress: 5.2},
				Energy:   &mech.EnergyResult{StrainEnergyDensity: 160, FractureEnergy: 12.8},
			},
			{
				Name:  "ecc-2",
				Crack: &mech.CrackPoint{Detected: false},
			},
			{
				Name:  "ecc-3",
				Error: "curve span is degenerate",
			},
		},
	}
}

func TestMarkdown_ContainsIndicatorTable(t *testing.T) {
	md := NewRenderer().Markdown(sampleBatch())

	for _, want := range []string{
		"# ECC Analysis Report",
		"| Sample | E_eff (GPa) |",
		"| ecc-1 | 18.000 | 3.600 |",
		"Samples: 3 (1 failed)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_UndetectedCrackIsNotAvailable(t *testing.T) {
	md := NewRenderer().Markdown(sampleBatch())
	if !strings.Contains(md, "| ecc-2 | n/a | n/a |") {
		t.Errorf("Undetected-crack sample should render n/a cells:\n%s", md)
	}
}

func TestMarkdown_FailuresListed(t *testing.T) {
	md := NewRenderer().Markdown(sampleBatch())
	if !strings.Contains(md, "## Failures") {
		t.Error("Expected a failures section")
	}
	if !strings.Contains(md, "**ecc-3**: curve span is degenerate") {
		t.Error("Expected the failed sample with its error text")
	}
}

func TestMarkdown_CompressiveGroups(t *testing.T) {
	report := mech.BatchReport{
		BatchID:   core.NewBatchID(),
		Mode:      mech.ModeCompressive,
		CreatedAt: core.Now(),
		Groups: []mech.GroupStatistics{
			{Group: "C40", N: 3, Mean: 45.63, SD: 1.02, COV: 2.24},
		},
	}

	md := NewRenderer().Markdown(report)
	if !strings.Contains(md, "## Compressive strength groups") {
		t.Error("Expected the group section")
	}
	if !strings.Contains(md, "| C40 | 3 | 45.63 | 1.02 | 2.24 |") {
		t.Errorf("Expected the group row:\n%s", md)
	}
}

func TestHTML_RendersTables(t *testing.T) {
	out := string(NewRenderer().HTML(sampleBatch()))
	if !strings.Contains(out, "<table>") {
		t.Error("Expected the markdown table rendered as HTML")
	}
	if !strings.Contains(out, "ecc-1") {
		t.Error("Expected sample names in the HTML output")
	}
}

func TestPDF_ProducesDocument(t *testing.T) {
	data, err := NewRenderer().PDF(sampleBatch())
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Error("Expected a non-empty PDF document")
	}
}
