package curve

import (
	"fmt"
	"strings"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
)

// Config holds the analysis parameters shared read-only by every sample
// in a batch. Stress values are MPa, lengths mm, strains dimensionless.
type Config struct {
	// GaugeLengthMM scales strain energy density into fracture energy.
	GaugeLengthMM float64 `json:"gauge_length_mm"`
	// CrackTolerance is the elastic-prediction deviation (MPa) that arms
	// the first-crack master criterion.
	CrackTolerance float64 `json:"crack_tolerance"`
	// UltimateRatio is the post-peak stress fraction that defines the
	// failure strain, in (0, 1].
	UltimateRatio float64 `json:"ultimate_ratio"`
	// SmoothWindow is the centered moving-average width. Must be odd.
	SmoothWindow int `json:"smooth_window"`

	// ElasticLower and ElasticUpper bound the effective-modulus fit
	// window as fractions of peak stress.
	ElasticLower float64 `json:"elastic_lower"`
	ElasticUpper float64 `json:"elastic_upper"`

	// InitialSearchFraction limits the initial-modulus tangent scan to
	// the early part of the strain range.
	InitialSearchFraction float64 `json:"initial_search_fraction"`
	// TangentFloor and TangentCeiling (MPa) reject non-physical tangent
	// slopes: sensor noise below, machine-stiffness artifacts above.
	// Both zero disables the filter.
	TangentFloor   float64 `json:"tangent_floor"`
	TangentCeiling float64 `json:"tangent_ceiling"`

	// SlaveDropRatio is the tangent-modulus fraction of the initial
	// modulus below which a crack candidate is confirmed.
	SlaveDropRatio float64 `json:"slave_drop_ratio"`
	// LookaheadPoints is how far past a candidate the slave criterion
	// searches before the candidate is rejected as noise.
	LookaheadPoints int `json:"lookahead_points"`
}

// DefaultConfig returns the standard ECC dogbone parameters.
func DefaultConfig() Config {
	return Config{
		GaugeLengthMM:         80.0,
		CrackTolerance:        0.05,
		UltimateRatio:         0.85,
		SmoothWindow:          11,
		ElasticLower:          0.10,
		ElasticUpper:          0.40,
		InitialSearchFraction: 0.30,
		TangentFloor:          1000.0,  // 1 GPa
		TangentCeiling:        60000.0, // 60 GPa
		SlaveDropRatio:        0.85,
		LookaheadPoints:       10,
	}
}

// Validate rejects configurations the analysis cannot run under.
func (c Config) Validate() error {
	if c.GaugeLengthMM <= 0 {
		return core.NewConfigError("gauge_length_mm", fmt.Sprintf("must be positive, got %g", c.GaugeLengthMM))
	}
	if c.CrackTolerance <= 0 {
		return core.NewConfigError("crack_tolerance", fmt.Sprintf("must be positive, got %g", c.CrackTolerance))
	}
	if c.UltimateRatio <= 0 || c.UltimateRatio > 1 {
		return core.NewConfigError("ultimate_ratio", fmt.Sprintf("must be in (0, 1], got %g", c.UltimateRatio))
	}
	if c.SmoothWindow < 1 {
		return core.NewConfigError("smooth_window", fmt.Sprintf("must be positive, got %d", c.SmoothWindow))
	}
	if c.SmoothWindow%2 == 0 {
		return core.NewConfigError("smooth_window", fmt.Sprintf("must be odd, got %d", c.SmoothWindow))
	}
	if c.ElasticLower < 0 || c.ElasticUpper <= c.ElasticLower || c.ElasticUpper > 1 {
		return core.NewConfigError("elastic_window", fmt.Sprintf("need 0 <= lower < upper <= 1, got [%g, %g]", c.ElasticLower, c.ElasticUpper))
	}
	if c.InitialSearchFraction <= 0 || c.InitialSearchFraction > 1 {
		return core.NewConfigError("initial_search_fraction", fmt.Sprintf("must be in (0, 1], got %g", c.InitialSearchFraction))
	}
	if c.TangentFloor < 0 || (c.TangentCeiling != 0 && c.TangentCeiling <= c.TangentFloor) {
		return core.NewConfigError("tangent_band", fmt.Sprintf("need 0 <= floor < ceiling, got [%g, %g]", c.TangentFloor, c.TangentCeiling))
	}
	if c.SlaveDropRatio <= 0 || c.SlaveDropRatio >= 1 {
		return core.NewConfigError("slave_drop_ratio", fmt.Sprintf("must be in (0, 1), got %g", c.SlaveDropRatio))
	}
	if c.LookaheadPoints < 1 {
		return core.NewConfigError("lookahead_points", fmt.Sprintf("must be positive, got %d", c.LookaheadPoints))
	}
	return nil
}

// Fingerprint returns a stable hash of the configuration. Batch results
// carry it so a configuration change invalidates prior results wholesale.
func (c Config) Fingerprint() core.ConfigFingerprint {
	var b strings.Builder
	fmt.Fprintf(&b, "gauge=%v|tol=%v|ratio=%v|win=%d|", c.GaugeLengthMM, c.CrackTolerance, c.UltimateRatio, c.SmoothWindow)
	fmt.Fprintf(&b, "elastic=%v:%v|search=%v|", c.ElasticLower, c.ElasticUpper, c.InitialSearchFraction)
	fmt.Fprintf(&b, "band=%v:%v|drop=%v|look=%d", c.TangentFloor, c.TangentCeiling, c.SlaveDropRatio, c.LookaheadPoints)
	return core.NewConfigFingerprint([]byte(b.String()))
}
