// Package energy integrates the stress-strain response into strain
// energy density and gauge-scaled fracture energy.
package energy

import (
	"gonum.org/v1/gonum/integrate"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// minIntegrationPoints is what composite Simpson integration needs.
const minIntegrationPoints = 3

// densityScale converts MPa (= MJ/m^3) into kJ/m^3.
const densityScale = 1000.0

// mmToM converts the gauge length into metres for the kJ/m^2 scaling.
const mmToM = 1.0 / 1000.0

// Integrate computes the energy metrics over [0, bound] where the bound
// is the failure strain when defined and the peak strain otherwise.
// Simpson's composite rule handles uneven spacing and any point count
// from three up, so no trailing data is ever discarded to fit the rule.
func Integrate(sc curve.SmoothedCurve, ult mech.UltimatePoint, cfg curve.Config) (mech.EnergyResult, error) {
	bound := ult.Strain
	if ult.FailureDefined {
		bound = ult.FailureStrain
	}
	if bound <= 0 {
		return mech.EnergyResult{}, core.NewDegenerateRangeError("integration bound is not positive")
	}

	var x, y []float64
	for i := 0; i < sc.Len(); i++ {
		if sc.Strain[i] > bound {
			break
		}
		x = append(x, sc.Strain[i])
		y = append(y, sc.Stress[i])
	}
	if len(x) < minIntegrationPoints {
		return mech.EnergyResult{}, core.NewDegenerateRangeError("fewer than 3 points in integration range")
	}

	density := integrate.Simpsons(x, y) * densityScale
	return mech.EnergyResult{
		StrainEnergyDensity: density,
		FractureEnergy:      density * cfg.GaugeLengthMM * mmToM,
		IntegrationBound:    bound,
	}, nil
}
