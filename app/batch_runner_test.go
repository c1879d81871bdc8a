package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal/testkit"
)

func tensileSample(name string, raw curve.RawCurve) curve.Sample {
	return curve.Sample{
		Name:   name,
		Kind:   curve.KindCurve,
		Strain: raw.Strain,
		Stress: raw.Stress,
	}
}

func summarySample(name string, value float64) curve.Sample {
	return curve.Sample{
		Name:   name,
		Kind:   curve.KindSummary,
		Strain: []float64{0},
		Stress: []float64{value},
	}
}

func TestRun_OneBadSampleDoesNotSinkTheBatch(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	samples := []curve.Sample{
		tensileSample("good", testkit.Bilinear(201, 30000, 0.001, 0.5, 0.004)),
		tensileSample("bad", curve.RawCurve{Strain: []float64{0, 0.001, 0.002}, Stress: []float64{0, 1, 2}}),
	}

	report, err := runner.Run(context.Background(), samples, curve.DefaultConfig(), mech.ModeTensile)
	require.NoError(t, err)
	require.Len(t, report.Samples, 2)

	assert.Equal(t, 1, report.FailureCount())
	assert.False(t, report.Samples[0].Failed(), "good sample must survive its neighbor's failure")
	assert.True(t, report.Samples[1].Failed())
	assert.NotEmpty(t, report.Samples[1].Error)
	assert.Nil(t, report.Samples[1].Modulus, "failed sample must not carry fabricated results")
}

func TestRun_ReportOrderMatchesInput(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	samples := []curve.Sample{
		tensileSample("s1", testkit.Linear(101, 30000, 0.004)),
		tensileSample("s2", testkit.Linear(101, 20000, 0.004)),
		tensileSample("s3", testkit.Linear(101, 10000, 0.004)),
	}

	report, err := runner.Run(context.Background(), samples, curve.DefaultConfig(), mech.ModeTensile)
	require.NoError(t, err)
	require.Len(t, report.Samples, 3)
	for i, want := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, want, report.Samples[i].Name)
	}
}

func TestRun_LinearCurveYieldsUndetectedCrack(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	samples := []curve.Sample{tensileSample("elastic", testkit.Linear(201, 30000, 0.004))}

	report, err := runner.Run(context.Background(), samples, curve.DefaultConfig(), mech.ModeTensile)
	require.NoError(t, err)

	s := report.Samples[0]
	assert.False(t, s.Failed(), "an undetected crack is an outcome, not an error")
	require.NotNil(t, s.Crack)
	assert.False(t, s.Crack.Detected)
	require.NotNil(t, s.Ductility)
	assert.False(t, s.Ductility.Applicable)
	require.NotNil(t, s.Energy, "energy is defined regardless of crack outcome")
}

func TestRun_EmptyBatchFails(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	_, err := runner.Run(context.Background(), nil, curve.DefaultConfig(), mech.ModeTensile)
	assert.Error(t, err)
}

func TestRun_InvalidConfigFailsBeforeAnalysis(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	cfg := curve.DefaultConfig()
	cfg.SmoothWindow = 4

	samples := []curve.Sample{tensileSample("s", testkit.Linear(101, 30000, 0.004))}
	_, err := runner.Run(context.Background(), samples, cfg, mech.ModeTensile)
	assert.Error(t, err)
}

func TestRun_CancelledContextDiscardsTheRun(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples := []curve.Sample{tensileSample("s", testkit.Linear(101, 30000, 0.004))}
	_, err := runner.Run(ctx, samples, curve.DefaultConfig(), mech.ModeTensile)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CompressiveSummaryGrouping(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	samples := []curve.Sample{
		summarySample("C40", 45.2),
		summarySample("C40", 46.8),
		summarySample("C40", 44.9),
		summarySample("C30", 38.5),
	}

	report, err := runner.Run(context.Background(), samples, curve.DefaultConfig(), mech.ModeCompressive)
	require.NoError(t, err)
	require.Len(t, report.Groups, 2)

	assert.Equal(t, "C30", report.Groups[0].Group)
	assert.Equal(t, 1, report.Groups[0].N)
	assert.Equal(t, "C40", report.Groups[1].Group)
	assert.Equal(t, 3, report.Groups[1].N)
	assert.InDelta(t, 45.633, report.Groups[1].Mean, 1e-3)
}

func TestRun_FailedSampleExcludedFromGroups(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	samples := []curve.Sample{
		summarySample("C40", 45.2),
		{Name: "C40", Kind: curve.KindSummary}, // no strength value
	}

	report, err := runner.Run(context.Background(), samples, curve.DefaultConfig(), mech.ModeCompressive)
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, 1, report.Groups[0].N)
	assert.Equal(t, 1, report.FailureCount())
}

func TestIsStale_TracksFingerprint(t *testing.T) {
	runner := NewBatchRunner(NewAnalysisService(nil), nil)
	cfg := curve.DefaultConfig()

	samples := []curve.Sample{tensileSample("s", testkit.Linear(101, 30000, 0.004))}
	report, err := runner.Run(context.Background(), samples, cfg, mech.ModeTensile)
	require.NoError(t, err)

	assert.False(t, runner.IsStale(report, cfg))

	changed := cfg
	changed.GaugeLengthMM = 100
	assert.True(t, runner.IsStale(report, changed))
}
