package ports

import (
	"context"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// BatchSummary is the listing row for an archived batch.
type BatchSummary struct {
	BatchID     core.BatchID     `json:"batch_id" db:"id"`
	Mode        mech.LoadingMode `json:"mode" db:"mode"`
	Fingerprint string           `json:"fingerprint" db:"fingerprint"`
	SampleCount int              `json:"sample_count" db:"sample_count"`
	CreatedAt   core.Timestamp   `json:"created_at" db:"created_at"`
}

// BatchRepository archives analysis batches for later retrieval.
type BatchRepository interface {
	Save(ctx context.Context, report mech.BatchReport) error
	Get(ctx context.Context, id core.BatchID) (mech.BatchReport, error)
	List(ctx context.Context, limit int) ([]BatchSummary, error)
	// DeleteStale removes batches whose fingerprint differs from the
	// current configuration fingerprint.
	DeleteStale(ctx context.Context, current core.ConfigFingerprint) (int64, error)
}
