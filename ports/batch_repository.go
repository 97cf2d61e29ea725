package ports

import (
	"context"

	"drawforge/domain/core"
	"drawforge/domain/draw"
	"drawforge/domain/stats"
)

// BatchRepository persists generated batches and their analysis reports for
// later audit.
type BatchRepository interface {
	SaveBatch(ctx context.Context, batch *draw.Batch) error
	GetBatch(ctx context.Context, id core.BatchID) (*draw.Batch, error)
	ListBatches(ctx context.Context, limit int) ([]*draw.Batch, error)

	SaveReport(ctx context.Context, id core.BatchID, report *stats.AnalysisReport) error
	GetReport(ctx context.Context, id core.BatchID) (*stats.AnalysisReport, error)
}
