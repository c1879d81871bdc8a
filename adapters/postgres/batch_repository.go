// Package postgres archives analysis batches in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
	"github.com/liqinglq666/ECC-Analyzer-Pro/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS ecc_batches (
	id           TEXT PRIMARY KEY,
	mode         TEXT NOT NULL,
	fingerprint  TEXT NOT NULL,
	sample_count INTEGER NOT NULL,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ecc_batches_fingerprint ON ecc_batches (fingerprint);
`

// EnsureSchema creates the archive table when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// BatchRepositoryImpl implements BatchRepository for PostgreSQL
type BatchRepositoryImpl struct {
	db *sqlx.DB
}

// NewBatchRepository creates a new PostgreSQL batch repository
func NewBatchRepository(db *sqlx.DB) ports.BatchRepository {
	return &BatchRepositoryImpl{db: db}
}

// Save archives a batch report. The full report travels as JSONB; the
// metadata columns exist for listing and staleness queries.
func (r *BatchRepositoryImpl) Save(ctx context.Context, report mech.BatchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode batch report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ecc_batches (id, mode, fingerprint, sample_count, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET report = EXCLUDED.report, fingerprint = EXCLUDED.fingerprint, sample_count = EXCLUDED.sample_count
	`, report.BatchID.String(), string(report.Mode), report.Fingerprint.String(), len(report.Samples), payload, report.CreatedAt.Time())
	return err
}

// Get retrieves an archived batch by id.
func (r *BatchRepositoryImpl) Get(ctx context.Context, id core.BatchID) (mech.BatchReport, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT report FROM ecc_batches WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return mech.BatchReport{}, fmt.Errorf("%w: %s", core.ErrBatchNotFound, id)
	}
	if err != nil {
		return mech.BatchReport{}, err
	}

	var report mech.BatchReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return mech.BatchReport{}, fmt.Errorf("failed to decode batch report: %w", err)
	}
	return report, nil
}

// List returns the most recent batches, newest first.
func (r *BatchRepositoryImpl) List(ctx context.Context, limit int) ([]ports.BatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows := []struct {
		ID          string    `db:"id"`
		Mode        string    `db:"mode"`
		Fingerprint string    `db:"fingerprint"`
		SampleCount int       `db:"sample_count"`
		CreatedAt   time.Time `db:"created_at"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, mode, fingerprint, sample_count, created_at
		FROM ecc_batches
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ports.BatchSummary, len(rows))
	for i, row := range rows {
		out[i] = ports.BatchSummary{
			BatchID:     core.BatchID(row.ID),
			Mode:        mech.LoadingMode(row.Mode),
			Fingerprint: row.Fingerprint,
			SampleCount: row.SampleCount,
			CreatedAt:   core.NewTimestamp(row.CreatedAt),
		}
	}
	return out, nil
}

// DeleteStale drops batches computed under a superseded configuration.
func (r *BatchRepositoryImpl) DeleteStale(ctx context.Context, current core.ConfigFingerprint) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ecc_batches WHERE fingerprint <> $1`, current.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
