// Package testkit generates deterministic synthetic stress-strain
// records with known analytic properties for package tests.
package testkit

import (
	"math/rand"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
)

// Linear returns a perfectly elastic record: stress = slope * strain,
// n points over [0, maxStrain].
func Linear(n int, slope, maxStrain float64) curve.RawCurve {
	c := curve.RawCurve{
		Strain: make([]float64, n),
		Stress: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		e := maxStrain * float64(i) / float64(n-1)
		c.Strain[i] = e
		c.Stress[i] = slope * e
	}
	return c
}

// Bilinear returns a record with slope k1 up to the knee strain and
// slope postRatio*k1 beyond it.
func Bilinear(n int, k1, knee, postRatio, maxStrain float64) curve.RawCurve {
	kneeStress := k1 * knee
	c := curve.RawCurve{
		Strain: make([]float64, n),
		Stress: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		e := maxStrain * float64(i) / float64(n-1)
		c.Strain[i] = e
		if e <= knee {
			c.Stress[i] = k1 * e
		} else {
			c.Stress[i] = kneeStress + postRatio*k1*(e-knee)
		}
	}
	return c
}

// FlatPlateau returns a record that climbs elastically to plateauStress
// at crackStrain and then holds it exactly constant to maxStrain. The
// hardening segment has zero stress dispersion.
func FlatPlateau(n int, slope, crackStrain, maxStrain float64) curve.RawCurve {
	plateauStress := slope * crackStrain
	c := curve.RawCurve{
		Strain: make([]float64, n),
		Stress: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		e := maxStrain * float64(i) / float64(n-1)
		c.Strain[i] = e
		if e <= crackStrain {
			c.Stress[i] = slope * e
		} else {
			c.Stress[i] = plateauStress
		}
	}
	return c
}

// Triangular returns a record rising linearly from zero to peakStress at
// peakStrain. Its integral over [0, peakStrain] is 0.5*peakStress*peakStrain.
func Triangular(n int, peakStress, peakStrain float64) curve.RawCurve {
	return Linear(n, peakStress/peakStrain, peakStrain)
}

// Softening returns a record rising to peakStress at peakStrain and then
// declining linearly to endRatio*peakStress at maxStrain.
func Softening(n int, peakStress, peakStrain, endRatio, maxStrain float64) curve.RawCurve {
	c := curve.RawCurve{
		Strain: make([]float64, n),
		Stress: make([]float64, n),
	}
	drop := peakStress * (1 - endRatio) / (maxStrain - peakStrain)
	for i := 0; i < n; i++ {
		e := maxStrain * float64(i) / float64(n-1)
		c.Strain[i] = e
		if e <= peakStrain {
			c.Stress[i] = peakStress * e / peakStrain
		} else {
			c.Stress[i] = peakStress - drop*(e-peakStrain)
		}
	}
	return c
}

// Percent returns a copy with the strain channel scaled into percent
// notation, as test machines often export it.
func Percent(c curve.RawCurve) curve.RawCurve {
	out := curve.RawCurve{
		Strain: make([]float64, len(c.Strain)),
		Stress: append([]float64(nil), c.Stress...),
	}
	for i, e := range c.Strain {
		out.Strain[i] = e * 100.0
	}
	return out
}

// WithNoise adds seeded uniform noise of the given amplitude to the
// stress channel.
func WithNoise(c curve.RawCurve, seed int64, amplitude float64) curve.RawCurve {
	rng := rand.New(rand.NewSource(seed))
	out := curve.RawCurve{
		Strain: append([]float64(nil), c.Strain...),
		Stress: make([]float64, len(c.Stress)),
	}
	for i, s := range c.Stress {
		out.Stress[i] = s + amplitude*(2*rng.Float64()-1)
	}
	return out
}
