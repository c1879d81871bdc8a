// Package modulus estimates the two stiffness indicators of a sample:
// the initial tangent modulus of the undamaged material and the
// effective secant modulus used as the elastic reference line.
package modulus

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// Relaxed fit window used once when the configured window is too sparse.
const (
	relaxedLower = 0.05
	relaxedUpper = 0.50
)

// minWindowPoints is the point count below which the configured window is
// relaxed before the fit is declared invalid.
const minWindowPoints = 3

// Compute estimates both moduli from a preprocessed curve.
func Compute(sc curve.SmoothedCurve, cfg curve.Config) (mech.ModulusResult, error) {
	peakIdx := sc.PeakIndex()
	if peakIdx < 0 {
		return mech.ModulusResult{}, core.NewInsufficientDataError(0, minWindowPoints)
	}
	peakStress := sc.Stress[peakIdx]
	if peakStress <= 0 {
		return mech.ModulusResult{}, core.ErrDegenerateCurve
	}

	effective, window, points, err := effectiveModulus(sc, peakIdx, peakStress, cfg)
	if err != nil {
		return mech.ModulusResult{}, err
	}

	initial := initialModulus(sc, peakIdx, cfg)
	// A noisy early region can leave no plausible tangent sample; the
	// secant stiffness is then the better lower bound.
	if initial < effective {
		initial = effective
	}

	return mech.ModulusResult{
		InitialModulus:   initial,
		EffectiveModulus: effective,
		FitWindow:        window,
		FitPoints:        points,
	}, nil
}

// effectiveModulus fits stress on strain through the origin over the
// configured fractional stress window of the pre-peak segment.
func effectiveModulus(sc curve.SmoothedCurve, peakIdx int, peakStress float64, cfg curve.Config) (float64, [2]float64, int, error) {
	window := [2]float64{cfg.ElasticLower * peakStress, cfg.ElasticUpper * peakStress}
	x, y := windowPoints(sc, peakIdx, window)
	if len(x) < minWindowPoints {
		relaxed := [2]float64{relaxedLower * peakStress, relaxedUpper * peakStress}
		if rx, ry := windowPoints(sc, peakIdx, relaxed); len(rx) > len(x) {
			x, y, window = rx, ry, relaxed
		}
	}
	if len(x) < 2 {
		return 0, window, len(x), core.NewInvalidFitError(len(x))
	}

	_, slope := stat.LinearRegression(x, y, nil, true)
	if slope <= 0 || math.IsNaN(slope) {
		return 0, window, len(x), core.NewInvalidFitError(len(x))
	}
	return slope, window, len(x), nil
}

func windowPoints(sc curve.SmoothedCurve, peakIdx int, window [2]float64) ([]float64, []float64) {
	var x, y []float64
	for i := 0; i <= peakIdx; i++ {
		if s := sc.Stress[i]; s >= window[0] && s <= window[1] {
			x = append(x, sc.Strain[i])
			y = append(y, s)
		}
	}
	return x, y
}

// initialModulus returns the mean of the top-decile tangent slopes over
// the early loading region, after the physical-plausibility band filter.
// Returns 0 when no tangent sample survives the filter.
func initialModulus(sc curve.SmoothedCurve, peakIdx int, cfg curve.Config) float64 {
	slopes := Tangents(sc, peakIdx)
	if len(slopes) == 0 {
		return 0
	}

	searchEnd := sc.Strain[0] + cfg.InitialSearchFraction*(sc.Strain[sc.Len()-1]-sc.Strain[0])
	valid := make([]float64, 0, len(slopes))
	for i, t := range slopes {
		// Tangents are indexed from the first interior point.
		if sc.Strain[i+1] > searchEnd {
			break
		}
		if cfg.TangentFloor > 0 || cfg.TangentCeiling > 0 {
			if t <= cfg.TangentFloor || t >= cfg.TangentCeiling {
				continue
			}
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(byMagnitude(valid)))
	top := valid[:decile(len(valid))]
	mean, err := stats.Mean(stats.Float64Data(top))
	if err != nil {
		return 0
	}
	return mean
}

// Tangents returns the central-difference tangent modulus at every
// interior point of the pre-peak segment, indexed from point 1.
func Tangents(sc curve.SmoothedCurve, peakIdx int) []float64 {
	if peakIdx < 2 {
		return nil
	}
	out := make([]float64, 0, peakIdx-1)
	for i := 1; i < peakIdx; i++ {
		de := sc.Strain[i+1] - sc.Strain[i-1]
		if de <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (sc.Stress[i+1]-sc.Stress[i-1])/de)
	}
	return out
}

func decile(n int) int {
	d := n / 10
	if d < 1 {
		d = 1
	}
	return d
}

type byMagnitude []float64

func (m byMagnitude) Len() int           { return len(m) }
func (m byMagnitude) Swap(i, j int)      { m[i], m[j] = m[j], m[i] }
func (m byMagnitude) Less(i, j int) bool { return math.Abs(m[i]) < math.Abs(m[j]) }
