package postgres

import (
	"context"

	"simrng/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DefaultListLimit caps ListRecent when no positive limit is given.
const DefaultListLimit = 50

// EvaluationRepository implements ports.EvaluationLedger for PostgreSQL
type EvaluationRepository struct {
	db *sqlx.DB
}

var _ ports.EvaluationLedger = (*EvaluationRepository)(nil)

// NewEvaluationRepository creates a new PostgreSQL evaluation repository
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	return sqlx.ConnectContext(ctx, "postgres", url)
}

// Record inserts one evaluation
func (r *EvaluationRepository) Record(ctx context.Context, rec ports.EvaluationRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO evaluations (
			id, generation_id, sample_hash, distribution, parameters, seed,
			sample_count, intervals, merged_intervals, degrees_of_freedom,
			alpha, calculated, critical, p_value, rejected, created_at
		) VALUES (
			:id, :generation_id, :sample_hash, :distribution, :parameters, :seed,
			:sample_count, :intervals, :merged_intervals, :degrees_of_freedom,
			:alpha, :calculated, :critical, :p_value, :rejected, :created_at
		)
	`, rec)
	return err
}

// ListRecent returns the newest evaluations first
func (r *EvaluationRepository) ListRecent(ctx context.Context, limit int) ([]ports.EvaluationRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var records []ports.EvaluationRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, generation_id, sample_hash, distribution, parameters, seed,
		       sample_count, intervals, merged_intervals, degrees_of_freedom,
		       alpha, calculated, critical, p_value, rejected, created_at
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return records, nil
}
