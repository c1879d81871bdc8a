// Package ultimate determines the peak of the curve, the post-peak
// failure strain and the ductility indicators of the hardening segment.
package ultimate

import (
	"github.com/montanaflynn/stats"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// minLookahead bounds the anti-sawtooth scan: an apparent drop below the
// failure threshold only counts if the next stretch of the record stays
// below it, so oscillating ECC curves are not declared failed early.
const minLookahead = 10

const epsMean = 1e-6

// Locate finds the ultimate point and, when the record softens far
// enough, the failure strain.
func Locate(sc curve.SmoothedCurve, cfg curve.Config) mech.UltimatePoint {
	peakIdx := sc.PeakIndex()
	if peakIdx < 0 {
		return mech.UltimatePoint{}
	}
	point := mech.UltimatePoint{
		Strain: sc.Strain[peakIdx],
		Stress: sc.Stress[peakIdx],
	}

	threshold := cfg.UltimateRatio * point.Stress
	lookahead := sc.Len() / 50
	if lookahead < minLookahead {
		lookahead = minLookahead
	}

	for i := peakIdx + 1; i < sc.Len(); i++ {
		if sc.Stress[i] > threshold {
			continue
		}
		if rebounds(sc.Stress, i, lookahead, threshold) {
			continue
		}
		point.FailureStrain = sc.Strain[i]
		point.FailureDefined = true
		break
	}
	return point
}

// rebounds reports whether the stress climbs back above the threshold
// within the lookahead window after index i.
func rebounds(stress []float64, i, lookahead int, threshold float64) bool {
	end := i + lookahead
	if end > len(stress) {
		end = len(stress)
	}
	for j := i + 1; j < end; j++ {
		if stress[j] > threshold {
			return true
		}
	}
	return false
}

// Ductility computes the hardening capacity and the plateau stability
// coefficient over [strain_cr, strain_u]. Both are defined only when a
// first crack was actually detected; otherwise the metrics are marked
// not applicable and carry no numbers.
func Ductility(sc curve.SmoothedCurve, crackPt mech.CrackPoint, ult mech.UltimatePoint) mech.DuctilityMetrics {
	if !crackPt.Detected {
		return mech.DuctilityMetrics{Applicable: false}
	}

	capacity := ult.Strain - crackPt.Strain
	if capacity < 0 {
		capacity = 0
	}

	metrics := mech.DuctilityMetrics{
		HardeningCapacity: capacity,
		Applicable:        true,
	}

	plateau := segment(sc, crackPt.Strain, ult.Strain)
	if len(plateau) < 2 {
		return metrics
	}
	mean, err := stats.Mean(stats.Float64Data(plateau))
	if err != nil || mean < epsMean {
		return metrics
	}
	sd, err := stats.StandardDeviation(stats.Float64Data(plateau))
	if err != nil {
		return metrics
	}
	metrics.PlateauCV = sd / mean
	return metrics
}

// segment returns the stress values whose strain lies in [lo, hi],
// read from the unsmoothed channel when available: the moving average
// smears the crack-onset corner into the plateau and would fabricate
// dispersion a flat hardening segment does not have.
func segment(sc curve.SmoothedCurve, lo, hi float64) []float64 {
	stress := sc.Stress
	if sc.StressRaw != nil {
		stress = sc.StressRaw
	}
	var out []float64
	for i := 0; i < sc.Len(); i++ {
		if sc.Strain[i] < lo {
			continue
		}
		if sc.Strain[i] > hi {
			break
		}
		out = append(out, stress[i])
	}
	return out
}
