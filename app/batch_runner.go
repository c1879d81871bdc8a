package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/groupstats"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/internal"
	"github.com/liqinglq666/ECC-Analyzer-Pro/ports"
)

// BatchRunner maps the per-sample pipeline over a batch. Samples share
// only the read-only configuration, so the map runs in parallel with no
// synchronization beyond the bounded group.
type BatchRunner struct {
	analyzer ports.SampleAnalyzer
	log      *internal.Logger
	limit    int
}

// NewBatchRunner creates a runner bounded to one worker per CPU.
func NewBatchRunner(analyzer ports.SampleAnalyzer, log *internal.Logger) *BatchRunner {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &BatchRunner{
		analyzer: analyzer,
		log:      log,
		limit:    runtime.NumCPU(),
	}
}

// Run analyzes every sample and, in compressive mode, aggregates group
// statistics by specimen name. Per-sample failures land in the sample's
// own report slot; only an invalid configuration or no samples at all
// fail the batch itself.
func (r *BatchRunner) Run(ctx context.Context, samples []curve.Sample, cfg curve.Config, mode mech.LoadingMode) (mech.BatchReport, error) {
	if err := cfg.Validate(); err != nil {
		return mech.BatchReport{}, err
	}
	if len(samples) == 0 {
		return mech.BatchReport{}, fmt.Errorf("%w: batch has no samples", core.ErrInsufficientData)
	}

	report := mech.BatchReport{
		BatchID:     core.NewBatchID(),
		Mode:        mode,
		Fingerprint: cfg.Fingerprint(),
		CreatedAt:   core.Now(),
		Samples:     make([]mech.SampleReport, len(samples)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, sample := range samples {
		i, sample := i, sample
		g.Go(func() error {
			report.Samples[i] = r.analyzer.AnalyzeSample(gctx, sample, cfg, mode)
			return nil
		})
	}
	// Workers only write their own slot and never return errors.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		// A superseded run is discarded wholesale, never delivered
		// partially computed.
		return mech.BatchReport{}, err
	}

	if mode == mech.ModeCompressive {
		groups, errs := groupstats.ComputeAll(groupsByName(samples, report.Samples))
		for _, err := range errs {
			r.log.Warn("group statistics: %v", err)
		}
		report.Groups = groups
	}

	r.log.Info("batch %s: %d samples, %d failed", report.BatchID, len(report.Samples), report.FailureCount())
	return report, nil
}

// IsStale reports whether an archived batch was computed under a
// different configuration and must be recomputed rather than reused.
func (r *BatchRunner) IsStale(report mech.BatchReport, cfg curve.Config) bool {
	return report.Fingerprint != cfg.Fingerprint()
}

// groupsByName collects strength values per specimen name: the raw value
// for summary samples, the analyzed peak stress for full curves. Failed
// samples contribute nothing.
func groupsByName(samples []curve.Sample, reports []mech.SampleReport) []groupstats.Group {
	order := make([]string, 0, len(samples))
	values := make(map[string][]float64, len(samples))
	for i, sample := range samples {
		if reports[i].Failed() || reports[i].Ultimate == nil {
			continue
		}
		if _, seen := values[sample.Name]; !seen {
			order = append(order, sample.Name)
		}
		values[sample.Name] = append(values[sample.Name], reports[i].Ultimate.Stress)
	}

	groups := make([]groupstats.Group, 0, len(order))
	for _, name := range order {
		groups = append(groups, groupstats.Group{Name: name, Values: values[name]})
	}
	return groups
}
