package app

import (
	"context"
	"math"

	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/crack"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/energy"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/modulus"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/preprocess"
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/ultimate"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal"
)

// compressiveSecantFraction is the stress level the compressive secant
// modulus is taken at.
const compressiveSecantFraction = 0.30

// AnalysisService runs the constitutive pipeline on single specimens.
// It holds no per-sample state: every invocation is a pure function of
// (sample, config), so concurrent calls need no locking.
type AnalysisService struct {
	log *internal.Logger
}

// NewAnalysisService creates the per-sample analyzer.
func NewAnalysisService(log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{log: log}
}

// AnalyzeSample dispatches on loading mode. Failures are captured in the
// report's Error field; the method itself never fails, so one bad sample
// cannot take a batch down.
func (s *AnalysisService) AnalyzeSample(ctx context.Context, sample curve.Sample, cfg curve.Config, mode mech.LoadingMode) mech.SampleReport {
	report := mech.SampleReport{
		SampleID:   sample.ID,
		Name:       sample.Name,
		SheetName:  sample.SheetName,
		SourceFile: sample.SourceFile,
		Mode:       mode,
	}
	if err := ctx.Err(); err != nil {
		report.Error = err.Error()
		return report
	}

	switch {
	case mode == mech.ModeCompressive && sample.Kind == curve.KindSummary:
		s.analyzeSummary(sample, &report)
	case mode == mech.ModeCompressive:
		s.analyzeCompressiveCurve(sample, cfg, &report)
	default:
		s.analyzeTensile(sample, cfg, &report)
	}
	return report
}

// analyzeTensile runs the full chain: preprocess, moduli, first crack,
// ultimate point, ductility, energy. Each stage downstream of a failure
// stays nil rather than carrying a fabricated number.
func (s *AnalysisService) analyzeTensile(sample curve.Sample, cfg curve.Config, report *mech.SampleReport) {
	sc, err := preprocess.Run(curve.RawCurve{Strain: sample.Strain, Stress: sample.Stress}, cfg)
	if err != nil {
		s.log.Warn("sample %s: preprocessing failed: %v", sample.Name, err)
		report.Error = err.Error()
		return
	}
	report.UnitAmbiguous = sc.UnitAmbiguous
	if sc.UnitAmbiguous {
		s.log.Warn("sample %s: maximum strain in the percent/fraction ambiguity band, unit guess flagged", sample.Name)
	}

	mod, err := modulus.Compute(sc, cfg)
	if err != nil {
		report.Error = err.Error()
		return
	}
	report.Modulus = &mod

	crackPt := crack.Detect(sc, mod, cfg)
	report.Crack = &crackPt

	ult := ultimate.Locate(sc, cfg)
	report.Ultimate = &ult

	duct := ultimate.Ductility(sc, crackPt, ult)
	report.Ductility = &duct

	en, err := energy.Integrate(sc, ult, cfg)
	if err != nil {
		// Peak/crack results above remain valid; only the integral is lost.
		s.log.Warn("sample %s: energy integration failed: %v", sample.Name, err)
		report.Error = err.Error()
		return
	}
	report.Energy = &en
}

// analyzeSummary handles a single strength value from a row-based
// compressive summary sheet. The value is the peak stress; nothing else
// is defined for it.
func (s *AnalysisService) analyzeSummary(sample curve.Sample, report *mech.SampleReport) {
	if len(sample.Stress) == 0 {
		report.Error = "summary sample carries no strength value"
		return
	}
	report.Ultimate = &mech.UltimatePoint{Stress: sample.Stress[0]}
}

// analyzeCompressiveCurve extracts the peak and the secant modulus at
// 30% of peak stress from a compressive record. Records of up to three
// points skip smoothing and span validation: crush tests sometimes ship
// only a couple of readings per cube, and those still carry a peak.
func (s *AnalysisService) analyzeCompressiveCurve(sample curve.Sample, cfg curve.Config, report *mech.SampleReport) {
	raw := curve.RawCurve{Strain: sample.Strain, Stress: sample.Stress}

	var sc curve.SmoothedCurve
	var err error
	if len(raw.Strain) <= preprocess.ShortSeriesMax {
		sc, err = preprocess.Passthrough(raw)
	} else {
		sc, err = preprocess.Run(raw, cfg)
	}
	if err != nil {
		report.Error = err.Error()
		return
	}
	report.UnitAmbiguous = sc.UnitAmbiguous

	peakIdx := sc.PeakIndex()
	report.Ultimate = &mech.UltimatePoint{
		Strain: sc.Strain[peakIdx],
		Stress: sc.Stress[peakIdx],
	}

	if sec, ok := secantModulus(sc, peakIdx); ok {
		report.Modulus = &mech.ModulusResult{
			InitialModulus:   sec,
			EffectiveModulus: sec,
		}
	}
}

// secantModulus is stress/strain at the pre-peak point closest to 30% of
// peak stress.
func secantModulus(sc curve.SmoothedCurve, peakIdx int) (float64, bool) {
	if peakIdx < 1 {
		return 0, false
	}
	target := compressiveSecantFraction * sc.Stress[peakIdx]
	best, bestDist := -1, math.Inf(1)
	for i := 0; i < peakIdx; i++ {
		if d := math.Abs(sc.Stress[i] - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || sc.Strain[best] <= 1e-6 {
		return 0, false
	}
	return sc.Stress[best] / sc.Strain[best], true
}
