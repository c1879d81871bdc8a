package curve

import (
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
)

// SampleKind distinguishes full stress-strain curves from single summary values.
type SampleKind string

const (
	// KindCurve is an ordered (strain, stress) record of one pull or crush.
	KindCurve SampleKind = "curve"
	// KindSummary is a single strength value from a row-based summary sheet.
	KindSummary SampleKind = "summary"
)

// Sample is one specimen as delivered by the loader: identification plus
// the raw numeric channels, before any normalization or smoothing.
type Sample struct {
	ID         core.SampleID `json:"id"`
	Name       string        `json:"name"`
	SheetName  string        `json:"sheet_name,omitempty"`
	SourceFile string        `json:"source_file,omitempty"`
	Kind       SampleKind    `json:"kind"`
	Strain     []float64     `json:"strain"`
	Stress     []float64     `json:"stress"`
}

// RawCurve is the ordered (strain, stress) record of a single sample.
// The strain unit is ambiguous (fraction or percent) until normalized,
// and strain values need not be monotonic in the loading index.
type RawCurve struct {
	Strain []float64 `json:"strain"`
	Stress []float64 `json:"stress"`
}

// Len returns the number of data points.
func (c RawCurve) Len() int { return len(c.Strain) }

// SmoothedCurve is a RawCurve after unit normalization, stress smoothing
// and strain de-duplication. Strain is strictly increasing.
type SmoothedCurve struct {
	Strain []float64 `json:"strain"`
	Stress []float64 `json:"stress"`

	// StressRaw is the cleaned stress channel before smoothing. Plateau
	// statistics read it so the moving average cannot fabricate scatter
	// at a crack-onset corner.
	StressRaw []float64 `json:"-"`

	// UnitConverted is true when the strain channel was interpreted as
	// percent notation and divided by 100.
	UnitConverted bool `json:"unit_converted"`
	// UnitAmbiguous marks curves whose maximum strain fell in the band
	// where the percent-vs-fraction heuristic cannot decide with
	// confidence. The heuristic's choice stands, but consumers should
	// surface the flag instead of trusting the guess silently.
	UnitAmbiguous bool `json:"unit_ambiguous"`
}

// Len returns the number of data points.
func (c SmoothedCurve) Len() int { return len(c.Strain) }

// PeakIndex returns the index of the global stress maximum, first
// occurrence on a tie or plateau. Returns -1 for an empty curve.
func (c SmoothedCurve) PeakIndex() int {
	if len(c.Stress) == 0 {
		return -1
	}
	idx := 0
	for i, s := range c.Stress {
		if s > c.Stress[idx] {
			idx = i
		}
	}
	return idx
}
