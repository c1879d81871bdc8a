// Package mech holds the mechanical indicator types produced by the
// constitutive analysis of a stress-strain record. All stresses are MPa
// and strains dimensionless fractions unless a method says otherwise.
package mech

import (
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
)

// LoadingMode selects the analysis branch for a batch.
type LoadingMode string

const (
	ModeTensile     LoadingMode = "tensile"
	ModeCompressive LoadingMode = "compressive"
)

// ModulusResult carries the two stiffness estimates of a sample.
type ModulusResult struct {
	// InitialModulus (MPa) is the undamaged tangent stiffness: the mean
	// of the top-decile tangent slopes over the early loading region.
	InitialModulus float64 `json:"initial_modulus"`
	// EffectiveModulus (MPa) is the secant stiffness: origin-forced
	// least squares over the configured fractional stress window.
	EffectiveModulus float64 `json:"effective_modulus"`
	// FitWindow is the [stress_lo, stress_hi] band (MPa) the effective
	// fit actually used, after any relaxation.
	FitWindow [2]float64 `json:"fit_window"`
	// FitPoints is how many points fell in the window.
	FitPoints int `json:"fit_points"`
}

// InitialGPa returns the initial modulus in GPa for reporting.
func (m ModulusResult) InitialGPa() float64 { return m.InitialModulus / 1000.0 }

// EffectiveGPa returns the effective modulus in GPa for reporting.
func (m ModulusResult) EffectiveGPa() float64 { return m.EffectiveModulus / 1000.0 }

// CrackPoint is the first-crack location. Detected=false is a legitimate
// terminal outcome (a linear-elastic record), distinct from "not computed":
// an uncomputed crack point never appears in a SampleReport at all.
type CrackPoint struct {
	Strain   float64 `json:"strain"`
	Stress   float64 `json:"stress"`
	Detected bool    `json:"detected"`
}

// UltimatePoint is the curve peak plus the post-peak failure strain.
type UltimatePoint struct {
	Strain float64 `json:"strain"`
	Stress float64 `json:"stress"`
	// FailureStrain is where post-peak stress first drops, and stays,
	// below ultimate_ratio x peak stress. Only meaningful when
	// FailureDefined is true; some records never soften in range.
	FailureStrain  float64 `json:"failure_strain"`
	FailureDefined bool    `json:"failure_defined"`
}

// TerminalStrain returns the strain the specimen carried load to: the
// failure strain when the record softened far enough to define one,
// else the peak strain. Reports quote this as the ultimate strain.
func (u UltimatePoint) TerminalStrain() float64 {
	if u.FailureDefined {
		return u.FailureStrain
	}
	return u.Strain
}

// DuctilityMetrics quantifies the hardening segment between first crack
// and peak. Applicable is false whenever no crack was detected; the
// numeric fields are then meaningless and must not be reported.
type DuctilityMetrics struct {
	// HardeningCapacity = strain_u - strain_cr.
	HardeningCapacity float64 `json:"hardening_capacity"`
	// PlateauCV is stddev/mean of stress over [strain_cr, strain_u].
	PlateauCV  float64 `json:"plateau_cv"`
	Applicable bool    `json:"applicable"`
}

// EnergyResult carries the integrated energy metrics.
type EnergyResult struct {
	// StrainEnergyDensity in kJ/m^3 (MPa x strain x 1000).
	StrainEnergyDensity float64 `json:"strain_energy_density"`
	// FractureEnergy in kJ/m^2: density scaled by gauge length.
	FractureEnergy float64 `json:"fracture_energy"`
	// IntegrationBound is the strain the integral ran to: the failure
	// strain when defined, else the peak strain.
	IntegrationBound float64 `json:"integration_bound"`
}

// GroupStatistics summarizes one compressive strength group.
type GroupStatistics struct {
	Group string  `json:"group"`
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
	// SD is the sample standard deviation (n-1 denominator); zero by
	// convention when N is 1.
	SD float64 `json:"sd"`
	// COV is SD/Mean expressed as a percentage.
	COV float64 `json:"cov"`
}

// SampleReport is the full result bundle for one specimen. Pointer fields
// are nil until the corresponding stage has run; a stage downstream of a
// failure or a not-applicable outcome stays nil rather than carrying a
// fabricated value.
type SampleReport struct {
	SampleID   core.SampleID `json:"sample_id"`
	Name       string        `json:"name"`
	SheetName  string        `json:"sheet_name,omitempty"`
	SourceFile string        `json:"source_file,omitempty"`
	Mode       LoadingMode   `json:"mode"`

	// UnitAmbiguous propagates the preprocessor's percent-vs-fraction
	// uncertainty flag so reports can surface borderline inputs.
	UnitAmbiguous bool `json:"unit_ambiguous,omitempty"`

	Modulus   *ModulusResult    `json:"modulus,omitempty"`
	Crack     *CrackPoint       `json:"crack,omitempty"`
	Ultimate  *UltimatePoint    `json:"ultimate,omitempty"`
	Ductility *DuctilityMetrics `json:"ductility,omitempty"`
	Energy    *EnergyResult     `json:"energy,omitempty"`

	// Error is set when the sample's pipeline failed; the batch keeps
	// going and other samples are unaffected.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the sample's pipeline ended in an error.
func (r SampleReport) Failed() bool { return r.Error != "" }

// BatchReport aggregates one analysis run over a set of samples.
type BatchReport struct {
	BatchID     core.BatchID           `json:"batch_id"`
	Mode        LoadingMode            `json:"mode"`
	Fingerprint core.ConfigFingerprint `json:"fingerprint"`
	CreatedAt   core.Timestamp         `json:"created_at"`
	Samples     []SampleReport         `json:"samples"`
	// Groups is populated in compressive mode only.
	Groups []GroupStatistics `json:"groups,omitempty"`
}

// FailureCount returns how many samples ended in an error.
func (b BatchReport) FailureCount() int {
	n := 0
	for _, s := range b.Samples {
		if s.Failed() {
			n++
		}
	}
	return n
}
