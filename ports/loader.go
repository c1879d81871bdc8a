package ports

import (
	"context"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// SampleLoader extracts specimen records from an external data source.
// Implementations own all file-format knowledge; the core only ever sees
// cleaned numeric sample arrays.
type SampleLoader interface {
	// Load returns every sample found for the given loading mode.
	Load(ctx context.Context, mode mech.LoadingMode) ([]curve.Sample, error)
}
