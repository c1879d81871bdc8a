package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad_TensileColumnPairs(t *testing.T) {
	content := "Specimen A,,Specimen B,\nStrain (%),Stress (MPa),Strain (%),Stress (MPa)\n"
	for i := 0; i < 20; i++ {
		e := 0.02 * float64(i)
		content += fmt.Sprintf("%g,%g,%g,%g\n", e, 300*e, e, 200*e)
	}
	path := writeCSV(t, "tensile.csv", content)

	samples, err := NewLoader(path).Load(context.Background(), mech.ModeTensile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 column-pair samples, got %d", len(samples))
	}

	if samples[0].Name != "Specimen A" || samples[1].Name != "Specimen B" {
		t.Errorf("Expected names from the header block, got %q and %q", samples[0].Name, samples[1].Name)
	}
	for _, s := range samples {
		if s.Kind != curve.KindCurve {
			t.Errorf("Sample %s: expected a curve, got %s", s.Name, s.Kind)
		}
		if len(s.Strain) != 20 || len(s.Stress) != 20 {
			t.Errorf("Sample %s: expected 20 rows, got %d/%d", s.Name, len(s.Strain), len(s.Stress))
		}
		if s.ID == "" {
			t.Errorf("Sample %s: missing generated ID", s.Name)
		}
		if s.SourceFile != "tensile.csv" {
			t.Errorf("Sample %s: expected source file tensile.csv, got %q", s.Name, s.SourceFile)
		}
	}
}

func TestLoad_UnnamedColumnsGetPlaceholders(t *testing.T) {
	content := ""
	for i := 0; i < 10; i++ {
		e := 0.05 * float64(i)
		content += fmt.Sprintf("%g,%g\n", e, 100*e)
	}
	path := writeCSV(t, "bare.csv", content)

	samples, err := NewLoader(path).Load(context.Background(), mech.ModeTensile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(samples))
	}
	if samples[0].Name != "Specimen_1" {
		t.Errorf("Expected placeholder name Specimen_1, got %q", samples[0].Name)
	}
}

func TestLoad_CompressiveRowSummary(t *testing.T) {
	content := "C40,45.2,46.8,44.9\nC30,38.5\n"
	path := writeCSV(t, "cubes.csv", content)

	samples, err := NewLoader(path).Load(context.Background(), mech.ModeCompressive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("Expected 4 summary samples, got %d", len(samples))
	}

	counts := map[string]int{}
	for _, s := range samples {
		if s.Kind != curve.KindSummary {
			t.Errorf("Expected summary kind, got %s", s.Kind)
		}
		counts[s.Name]++
	}
	if counts["C40"] != 3 || counts["C30"] != 1 {
		t.Errorf("Expected 3x C40 and 1x C30, got %v", counts)
	}
}

func TestLoad_LeadingRowIndexDiscarded(t *testing.T) {
	// A bare index number before the name is a row counter, not data.
	content := "1,C40,45.2\n2,C40,46.8\n"
	path := writeCSV(t, "indexed.csv", content)

	samples, err := NewLoader(path).Load(context.Background(), mech.ModeCompressive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples with indexes discarded, got %d", len(samples))
	}
	for _, s := range samples {
		if s.Stress[0] < 40 {
			t.Errorf("Row index leaked into the data: %g", s.Stress[0])
		}
	}
}

func TestLoad_NameCarriesForwardAcrossRows(t *testing.T) {
	content := "C40,45.2\n,46.8\n,44.9\n"
	path := writeCSV(t, "carry.csv", content)

	samples, err := NewLoader(path).Load(context.Background(), mech.ModeCompressive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s.Name != "C40" {
			t.Errorf("Expected carried-forward name C40, got %q", s.Name)
		}
	}
}

func TestLoad_EmptyWorkbook(t *testing.T) {
	path := writeCSV(t, "empty.csv", "just,text,here\n")
	if _, err := NewLoader(path).Load(context.Background(), mech.ModeTensile); err == nil {
		t.Error("Expected an error for a workbook with no usable samples")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path.xlsx").Load(context.Background(), mech.ModeTensile); err == nil {
		t.Error("Expected an error for a missing input file")
	}
}

func TestIsInvalidName(t *testing.T) {
	invalid := []string{"", "  ", "42", "3.14", "strain", "Stress", "Strain (%)", "load (kN)"}
	for _, s := range invalid {
		if !isInvalidName(s) {
			t.Errorf("%q should be rejected as a specimen name", s)
		}
	}
	valid := []string{"ECC-M45-1", "Specimen A", "C40"}
	for _, s := range valid {
		if isInvalidName(s) {
			t.Errorf("%q should be accepted as a specimen name", s)
		}
	}
}
