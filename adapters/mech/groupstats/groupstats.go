// Package groupstats aggregates compressive strength groups into
// mean / standard deviation / coefficient-of-variation summaries.
package groupstats

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// Group is a named, variable-length set of scalar strength values.
// Empty cells are already excluded upstream; n may differ per group.
type Group struct {
	Name   string
	Values []float64
}

// Compute summarizes one group. A single value yields SD = 0 by
// convention; an empty group is an error.
func Compute(g Group) (mech.GroupStatistics, error) {
	if len(g.Values) == 0 {
		return mech.GroupStatistics{}, fmt.Errorf("%w: %q", core.ErrEmptyGroup, g.Name)
	}

	data := stats.Float64Data(g.Values)
	mean, err := stats.Mean(data)
	if err != nil {
		return mech.GroupStatistics{}, fmt.Errorf("group %q: %w", g.Name, err)
	}

	sd := 0.0
	if len(g.Values) > 1 {
		sd, err = stats.StandardDeviationSample(data)
		if err != nil {
			return mech.GroupStatistics{}, fmt.Errorf("group %q: %w", g.Name, err)
		}
	}

	cov := 0.0
	if mean != 0 {
		cov = sd / mean * 100.0
	}

	return mech.GroupStatistics{
		Group: g.Name,
		N:     len(g.Values),
		Mean:  mean,
		SD:    sd,
		COV:   cov,
	}, nil
}

// ComputeAll summarizes every group, isolating failures: an empty group
// produces an error entry but never blocks its neighbors. Output order
// is deterministic by group name.
func ComputeAll(groups []Group) ([]mech.GroupStatistics, []error) {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var out []mech.GroupStatistics
	var errs []error
	for _, g := range sorted {
		gs, err := Compute(g)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, gs)
	}
	return out, errs
}
