// Package crack locates the first-crack point with a dual-criterion
// state machine. The master criterion (departure from the elastic
// reference line) arms a candidate; the slave criterion (a confirmed
// tangent-stiffness drop nearby) promotes it. An unconfirmed candidate
// is rejected as noise and scanning resumes behind it, so a single
// calibration blip cannot fake a crack.
package crack

import (
	"github.com/liqinglq666/ECC-Analyzer-Pro/adapters/mech/modulus"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// state is the detector's scan phase.
type state int

const (
	stateScanning state = iota
	stateCandidate
	stateConfirmed
	stateEnd
)

func (s state) String() string {
	switch s {
	case stateScanning:
		return "scanning"
	case stateCandidate:
		return "candidate"
	case stateConfirmed:
		return "confirmed"
	case stateEnd:
		return "end"
	}
	return "unknown"
}

// detector holds the scan cursor and the armed candidate, if any.
type detector struct {
	sc       curve.SmoothedCurve
	tangents []float64 // tangent modulus at interior points, from index 1

	effective float64 // elastic reference slope (MPa)
	tolerance float64 // master deviation threshold (MPa)
	threshold float64 // slave tangent threshold (MPa)
	lookahead int
	limit     int // last scannable index (the peak)

	st        state
	pos       int
	candidate int
}

// Detect scans the pre-peak segment of a preprocessed curve. The
// reported crack point is the master-trigger location, not the later
// confirming point: the deviation onset defines first crack, the
// stiffness drop only vouches for it.
func Detect(sc curve.SmoothedCurve, mod mech.ModulusResult, cfg curve.Config) mech.CrackPoint {
	peakIdx := sc.PeakIndex()
	if peakIdx < 2 || mod.EffectiveModulus <= 0 {
		return mech.CrackPoint{Detected: false}
	}

	d := &detector{
		sc:        sc,
		tangents:  modulus.Tangents(sc, peakIdx),
		effective: mod.EffectiveModulus,
		tolerance: cfg.CrackTolerance,
		threshold: cfg.SlaveDropRatio * mod.InitialModulus,
		lookahead: cfg.LookaheadPoints,
		limit:     peakIdx,
		st:        stateScanning,
		candidate: -1,
	}
	for d.st != stateConfirmed && d.st != stateEnd {
		d.step()
	}

	if d.st != stateConfirmed {
		return mech.CrackPoint{Detected: false}
	}
	return mech.CrackPoint{
		Strain:   sc.Strain[d.candidate],
		Stress:   sc.Stress[d.candidate],
		Detected: true,
	}
}

// step advances the machine by one transition.
func (d *detector) step() {
	switch d.st {
	case stateScanning:
		if d.pos > d.limit {
			d.st = stateEnd
			return
		}
		if d.deviation(d.pos) > d.tolerance {
			d.candidate = d.pos
			d.st = stateCandidate
			return
		}
		d.pos++

	case stateCandidate:
		end := d.candidate + d.lookahead
		if end > d.limit {
			end = d.limit
		}
		for j := d.candidate; j <= end; j++ {
			if t, ok := d.tangent(j); ok && t < d.threshold {
				d.st = stateConfirmed
				return
			}
		}
		// No stiffness loss followed: the candidate was noise.
		d.pos = d.candidate + 1
		d.candidate = -1
		d.st = stateScanning
	}
}

// deviation is how far the measured stress has fallen below the elastic
// reference line at point i.
func (d *detector) deviation(i int) float64 {
	return d.effective*d.sc.Strain[i] - d.sc.Stress[i]
}

// tangent returns the local tangent modulus at point i, if defined.
func (d *detector) tangent(i int) (float64, bool) {
	k := i - 1
	if k < 0 || k >= len(d.tangents) {
		return 0, false
	}
	return d.tangents[k], true
}
