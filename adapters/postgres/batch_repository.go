package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drawforge/domain/core"
	"drawforge/domain/draw"
	"drawforge/domain/stats"
	"drawforge/ports"
)

// schema creates the audit tables. Seeds are stored as decimal strings since
// they exceed any native integer column.
const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	numbers_per_draw INT NOT NULL,
	max_number INT NOT NULL,
	stars_per_draw INT NOT NULL,
	max_star INT NOT NULL,
	draw_count INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS draws (
	id TEXT PRIMARY KEY,
	batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	position INT NOT NULL,
	seed TEXT NOT NULL,
	numbers JSONB NOT NULL,
	stars JSONB NOT NULL,
	UNIQUE (batch_id, position)
);

CREATE TABLE IF NOT EXISTS analysis_reports (
	batch_id TEXT PRIMARY KEY REFERENCES batches(id) ON DELETE CASCADE,
	report JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// batchRepository implements the BatchRepository interface
type batchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *sqlx.DB) ports.BatchRepository {
	return &batchRepository{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveBatch inserts a batch and all of its draws in one transaction.
func (r *batchRepository) SaveBatch(ctx context.Context, batch *draw.Batch) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, numbers_per_draw, max_number, stars_per_draw, max_star, draw_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		batch.ID, batch.Rules.NumbersPerDraw, batch.Rules.MaxNumber,
		batch.Rules.StarsPerDraw, batch.Rules.MaxStar, batch.Size(), batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	for i, d := range batch.Draws {
		numbersJSON, err := json.Marshal(d.Numbers)
		if err != nil {
			return fmt.Errorf("failed to marshal numbers: %w", err)
		}
		starsJSON, err := json.Marshal(d.Stars)
		if err != nil {
			return fmt.Errorf("failed to marshal stars: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO draws (id, batch_id, position, seed, numbers, stars)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			core.NewDrawID(), batch.ID, i, d.Seed.String(), numbersJSON, starsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert draw %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch and its draws, ordered by position.
func (r *batchRepository) GetBatch(ctx context.Context, id core.BatchID) (*draw.Batch, error) {
	var batch draw.Batch
	err := r.db.QueryRowContext(ctx,
		`SELECT id, numbers_per_draw, max_number, stars_per_draw, max_star, created_at
		 FROM batches WHERE id = $1`, id,
	).Scan(&batch.ID, &batch.Rules.NumbersPerDraw, &batch.Rules.MaxNumber,
		&batch.Rules.StarsPerDraw, &batch.Rules.MaxStar, &batch.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("batch", id.String())
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT seed, numbers, stars FROM draws WHERE batch_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draws: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seedDec     string
			numbersJSON []byte
			starsJSON   []byte
			d           draw.Draw
		)
		if err := rows.Scan(&seedDec, &numbersJSON, &starsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		if d.Seed, err = draw.SeedFromDecimal(seedDec); err != nil {
			return nil, fmt.Errorf("failed to parse stored seed: %w", err)
		}
		if err := json.Unmarshal(numbersJSON, &d.Numbers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal numbers: %w", err)
		}
		if err := json.Unmarshal(starsJSON, &d.Stars); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stars: %w", err)
		}
		batch.Draws = append(batch.Draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading draws: %w", err)
	}

	return &batch, nil
}

// ListBatches returns the most recent batches without their draws.
func (r *batchRepository) ListBatches(ctx context.Context, limit int) ([]*draw.Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, numbers_per_draw, max_number, stars_per_draw, max_star, created_at
		 FROM batches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []*draw.Batch
	for rows.Next() {
		var batch draw.Batch
		if err := rows.Scan(&batch.ID, &batch.Rules.NumbersPerDraw, &batch.Rules.MaxNumber,
			&batch.Rules.StarsPerDraw, &batch.Rules.MaxStar, &batch.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, &batch)
	}
	return batches, rows.Err()
}

// SaveReport stores the analysis report for a batch as JSON.
func (r *batchRepository) SaveReport(ctx context.Context, id core.BatchID, report *stats.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analysis_reports (batch_id, report) VALUES ($1, $2)
		 ON CONFLICT (batch_id) DO UPDATE SET report = EXCLUDED.report, created_at = now()`,
		id, reportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport retrieves a stored analysis report.
func (r *batchRepository) GetReport(ctx context.Context, id core.BatchID) (*stats.AnalysisReport, error) {
	var reportJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT report FROM analysis_reports WHERE batch_id = $1`, id).Scan(&reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("analysis report", id.String())
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report stats.AnalysisReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
