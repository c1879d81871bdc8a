package ports

import (
	"context"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// SampleAnalyzer runs the full constitutive pipeline on one specimen.
// Implementations must be pure with respect to (sample, config): no
// state survives between invocations and concurrent calls are safe.
type SampleAnalyzer interface {
	AnalyzeSample(ctx context.Context, sample curve.Sample, cfg curve.Config, mode mech.LoadingMode) mech.SampleReport
}
