package preprocess

import (
	"errors"
	"math"
	"testing"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal/testkit"
)

func TestClean_SortsAndDeduplicates(t *testing.T) {
	raw := curve.RawCurve{
		Strain: []float64{0, 0.002, 0.001, 0.001, 0.003, 0.004},
		Stress: []float64{0, 2, 1, 99, 3, 4},
	}

	cleaned, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	wantStrain := []float64{0, 0.001, 0.002, 0.003, 0.004}
	wantStress := []float64{0, 1, 2, 3, 4}
	if len(cleaned.Strain) != len(wantStrain) {
		t.Fatalf("Expected %d points after dedupe, got %d", len(wantStrain), len(cleaned.Strain))
	}
	for i := range wantStrain {
		if cleaned.Strain[i] != wantStrain[i] {
			t.Errorf("Strain[%d]: expected %g, got %g", i, wantStrain[i], cleaned.Strain[i])
		}
		// Duplicate strain keeps the first occurrence in load order.
		if cleaned.Stress[i] != wantStress[i] {
			t.Errorf("Stress[%d]: expected %g, got %g", i, wantStress[i], cleaned.Stress[i])
		}
	}
}

func TestClean_StripsNonFiniteAndNegativeStrain(t *testing.T) {
	raw := curve.RawCurve{
		Strain: []float64{-0.001, 0, 0.001, 0.002, math.NaN(), 0.003, 0.004, 0.005},
		Stress: []float64{5, 0, 1, 2, 3, math.Inf(1), 4, 5},
	}

	cleaned, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if cleaned.Len() != 5 {
		t.Errorf("Expected 5 surviving points, got %d", cleaned.Len())
	}
	for _, e := range cleaned.Strain {
		if e < 0 {
			t.Errorf("Negative strain %g survived cleaning", e)
		}
	}
}

func TestClean_DimensionMismatch(t *testing.T) {
	_, err := Clean(curve.RawCurve{Strain: []float64{0, 1}, Stress: []float64{0}})
	if !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestClean_TooFewPoints(t *testing.T) {
	_, err := Clean(curve.RawCurve{
		Strain: []float64{0, 0.001, 0.002, 0.003},
		Stress: []float64{0, 1, 2, 3},
	})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestClean_FlatStressIsDegenerate(t *testing.T) {
	_, err := Clean(curve.RawCurve{
		Strain: []float64{0, 0.001, 0.002, 0.003, 0.004},
		Stress: []float64{2, 2, 2, 2, 2},
	})
	if !errors.Is(err, core.ErrDegenerateCurve) {
		t.Errorf("Expected ErrDegenerateCurve for flat stress, got %v", err)
	}
}

func TestRun_LinearCurveSurvivesSmoothingExactly(t *testing.T) {
	// The moving average must not bend a linear record, boundaries
	// included: the crack detector depends on zero deviation here.
	raw := testkit.Linear(101, 30000, 0.004)
	cfg := curve.DefaultConfig()

	sc, err := Run(raw, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sc.UnitConverted {
		t.Error("Fractional strain should not be unit-converted")
	}
	for i := range raw.Stress {
		if diff := math.Abs(sc.Stress[i] - raw.Stress[i]); diff > 1e-9 {
			t.Fatalf("Smoothing moved linear stress at %d by %g", i, diff)
		}
	}
}

func TestRun_PercentAndFractionAgreeAfterNormalization(t *testing.T) {
	frac := testkit.Linear(101, 1000, 0.03)
	pct := testkit.Percent(frac) // max strain 3.0: unambiguously percent
	cfg := curve.DefaultConfig()

	scFrac, err := Run(frac, cfg)
	if err != nil {
		t.Fatalf("Run(fraction) failed: %v", err)
	}
	scPct, err := Run(pct, cfg)
	if err != nil {
		t.Fatalf("Run(percent) failed: %v", err)
	}

	if !scPct.UnitConverted {
		t.Error("Percent-notation strain should be converted")
	}
	if scPct.UnitAmbiguous {
		t.Error("Max strain 3.0 is clearly percent, not ambiguous")
	}
	for i := range scFrac.Strain {
		if diff := math.Abs(scFrac.Strain[i] - scPct.Strain[i]); diff > 1e-12 {
			t.Fatalf("Normalized strains differ at %d by %g", i, diff)
		}
	}
}

func TestRun_AmbiguityBandIsFlagged(t *testing.T) {
	// Max strain 0.5 sits between plausible fraction and plausible
	// percent: the heuristic converts but flags the guess.
	raw := testkit.Linear(51, 10, 0.5)
	sc, err := Run(raw, curve.DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sc.UnitConverted {
		t.Error("Expected conversion above the percent threshold")
	}
	if !sc.UnitAmbiguous {
		t.Error("Max strain 0.5 should carry the ambiguity flag")
	}
}

func TestRun_RecordShorterThanWindow(t *testing.T) {
	raw := testkit.Linear(7, 1000, 0.004)
	cfg := curve.DefaultConfig()
	cfg.SmoothWindow = 11

	_, err := Run(raw, cfg)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for 7 points under window 11, got %v", err)
	}
}

func TestPassthrough_ShortRecordKeptVerbatim(t *testing.T) {
	raw := curve.RawCurve{
		Strain: []float64{0.002, 0, 0.001},
		Stress: []float64{42, 0, 20},
	}

	sc, err := Passthrough(raw)
	if err != nil {
		t.Fatalf("Passthrough failed: %v", err)
	}

	wantStrain := []float64{0, 0.001, 0.002}
	wantStress := []float64{0, 20, 42}
	for i := range wantStrain {
		if sc.Strain[i] != wantStrain[i] || sc.Stress[i] != wantStress[i] {
			t.Errorf("Point %d: got (%g, %g), want (%g, %g)",
				i, sc.Strain[i], sc.Stress[i], wantStrain[i], wantStress[i])
		}
	}
	for i := range sc.Stress {
		if sc.StressRaw[i] != sc.Stress[i] {
			t.Errorf("Unsmoothed record should have identical channels at %d", i)
		}
	}
}

func TestPassthrough_PercentStrainConverted(t *testing.T) {
	sc, err := Passthrough(curve.RawCurve{
		Strain: []float64{0, 2.5},
		Stress: []float64{0, 42},
	})
	if err != nil {
		t.Fatalf("Passthrough failed: %v", err)
	}
	if !sc.UnitConverted {
		t.Error("Max strain 2.5 should be read as percent")
	}
	if math.Abs(sc.Strain[1]-0.025) > 1e-15 {
		t.Errorf("Expected converted strain 0.025, got %g", sc.Strain[1])
	}
}

func TestPassthrough_Errors(t *testing.T) {
	_, err := Passthrough(curve.RawCurve{Strain: []float64{0, 1}, Stress: []float64{0}})
	if !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}

	_, err = Passthrough(curve.RawCurve{
		Strain: []float64{math.NaN(), -0.001},
		Stress: []float64{1, 2},
	})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData when nothing survives, got %v", err)
	}
}

func TestMovingAverage_ConstantSignalUnchanged(t *testing.T) {
	y := []float64{3, 3, 3, 3, 3, 3, 3}
	out := movingAverage(y, 5)
	for i, v := range out {
		if v != 3 {
			t.Errorf("Constant signal changed at %d: %g", i, v)
		}
	}
}
