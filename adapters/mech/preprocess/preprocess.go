// Package preprocess cleans a raw stress-strain record into the strictly
// increasing, unit-normalized, smoothed form the analysis stages consume.
package preprocess

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
)

const (
	// MinPoints is the smallest record a mechanics analysis can stand on.
	MinPoints = 5

	// percentThreshold: a maximum strain above this is read as percent
	// notation and divided by 100. Genuine ECC fractional strains stay
	// well below it.
	percentThreshold = 0.2
	// ambiguousCeiling: maxima in (percentThreshold, ambiguousCeiling]
	// could be either notation, so the curve is flagged.
	ambiguousCeiling = 1.0

	epsSpan = 1e-9
)

// stripInvalid drops non-finite points and negative strains, keeping
// the channels aligned.
func stripInvalid(raw curve.RawCurve) ([]float64, []float64) {
	strain := make([]float64, 0, len(raw.Strain))
	stress := make([]float64, 0, len(raw.Stress))
	for i := range raw.Strain {
		e, s := raw.Strain[i], raw.Stress[i]
		if !isFinite(e) || !isFinite(s) || e < 0 {
			continue
		}
		strain = append(strain, e)
		stress = append(stress, s)
	}
	return strain, stress
}

// normalizeUnit applies the percent-vs-fraction heuristic, returning the
// possibly rescaled strain and the conversion/ambiguity flags.
func normalizeUnit(strain []float64) ([]float64, bool, bool) {
	maxStrain := floats.Max(strain)
	converted := maxStrain > percentThreshold
	ambiguous := converted && maxStrain <= ambiguousCeiling
	if converted {
		strain = append([]float64(nil), strain...)
		floats.Scale(1.0/100.0, strain)
	}
	return strain, converted, ambiguous
}

// Clean strips non-finite and negative-strain points, sorts by strain and
// collapses duplicate strain entries keeping the first occurrence.
func Clean(raw curve.RawCurve) (curve.RawCurve, error) {
	if len(raw.Strain) != len(raw.Stress) {
		return curve.RawCurve{}, core.NewDimensionMismatchError(len(raw.Strain), len(raw.Stress))
	}

	strain, stress := stripInvalid(raw)
	if len(strain) < MinPoints {
		return curve.RawCurve{}, core.NewInsufficientDataError(len(strain), MinPoints)
	}

	// Stable sort keeps original order among equal strains, so keeping
	// the first of each run below is "first occurrence" in load order.
	idx := make([]int, len(strain))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return strain[idx[a]] < strain[idx[b]] })

	outStrain := make([]float64, 0, len(strain))
	outStress := make([]float64, 0, len(stress))
	for _, i := range idx {
		if n := len(outStrain); n > 0 && strain[i] == outStrain[n-1] {
			continue
		}
		outStrain = append(outStrain, strain[i])
		outStress = append(outStress, stress[i])
	}
	if len(outStrain) < MinPoints {
		return curve.RawCurve{}, core.NewInsufficientDataError(len(outStrain), MinPoints)
	}

	if outStrain[len(outStrain)-1]-outStrain[0] < epsSpan {
		return curve.RawCurve{}, core.ErrDegenerateCurve
	}
	if floats.Max(outStress)-floats.Min(outStress) < epsSpan {
		return curve.RawCurve{}, core.ErrDegenerateCurve
	}

	return curve.RawCurve{Strain: outStrain, Stress: outStress}, nil
}

// Run cleans, unit-normalizes and smooths a raw curve.
func Run(raw curve.RawCurve, cfg curve.Config) (curve.SmoothedCurve, error) {
	cleaned, err := Clean(raw)
	if err != nil {
		return curve.SmoothedCurve{}, err
	}

	strain, converted, ambiguous := normalizeUnit(cleaned.Strain)

	window := cfg.SmoothWindow
	if window%2 == 0 {
		window++
	}
	if cleaned.Len() < window {
		return curve.SmoothedCurve{}, core.NewInsufficientDataError(cleaned.Len(), window)
	}

	return curve.SmoothedCurve{
		Strain:        strain,
		Stress:        movingAverage(cleaned.Stress, window),
		StressRaw:     cleaned.Stress,
		UnitConverted: converted,
		UnitAmbiguous: ambiguous,
	}, nil
}

// ShortSeriesMax is the longest record Passthrough accepts. Compressive
// test machines sometimes export only two or three points per cube.
const ShortSeriesMax = 3

// Passthrough normalizes a short record without smoothing or span
// validation. Such records carry a usable peak but cannot support
// regression-grade preprocessing.
func Passthrough(raw curve.RawCurve) (curve.SmoothedCurve, error) {
	if len(raw.Strain) != len(raw.Stress) {
		return curve.SmoothedCurve{}, core.NewDimensionMismatchError(len(raw.Strain), len(raw.Stress))
	}

	strain, stress := stripInvalid(raw)
	if len(strain) == 0 {
		return curve.SmoothedCurve{}, core.NewInsufficientDataError(0, 1)
	}
	sortByStrain(strain, stress)

	strain, converted, ambiguous := normalizeUnit(strain)
	return curve.SmoothedCurve{
		Strain:        strain,
		Stress:        stress,
		StressRaw:     stress,
		UnitConverted: converted,
		UnitAmbiguous: ambiguous,
	}, nil
}

func sortByStrain(strain, stress []float64) {
	idx := make([]int, len(strain))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return strain[idx[a]] < strain[idx[b]] })

	outE := make([]float64, len(strain))
	outS := make([]float64, len(stress))
	for k, i := range idx {
		outE[k], outS[k] = strain[i], stress[i]
	}
	copy(strain, outE)
	copy(stress, outS)
}

// movingAverage applies a centered moving average of the given odd width.
// Near the boundaries the half-width shrinks symmetrically, which keeps
// the output the same length and leaves linear signals untouched.
func movingAverage(y []float64, window int) []float64 {
	half := window / 2
	out := make([]float64, len(y))
	for i := range y {
		h := half
		if i < h {
			h = i
		}
		if r := len(y) - 1 - i; r < h {
			h = r
		}
		sum := 0.0
		for j := i - h; j <= i+h; j++ {
			sum += y[j]
		}
		out[i] = sum / float64(2*h+1)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
