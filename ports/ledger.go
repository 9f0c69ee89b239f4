package ports

import (
	"context"
	"time"
)

// EvaluationRecord is one completed chi-squared evaluation as persisted by a ledger
type EvaluationRecord struct {
	ID               string    `db:"id" json:"id"`
	GenerationID     string    `db:"generation_id" json:"generation_id"`
	SampleHash       string    `db:"sample_hash" json:"sample_hash"`
	Distribution     string    `db:"distribution" json:"distribution"`
	Parameters       string    `db:"parameters" json:"parameters"` // Descriptor as JSON
	Seed             int64     `db:"seed" json:"seed"`
	SampleCount      int       `db:"sample_count" json:"sample_count"`
	Intervals        int       `db:"intervals" json:"intervals"`
	MergedIntervals  int       `db:"merged_intervals" json:"merged_intervals"`
	DegreesOfFreedom int       `db:"degrees_of_freedom" json:"degrees_of_freedom"`
	Alpha            float64   `db:"alpha" json:"alpha"`
	Calculated       float64   `db:"calculated" json:"calculated"`
	Critical         float64   `db:"critical" json:"critical"`
	PValue           float64   `db:"p_value" json:"p_value"`
	Rejected         bool      `db:"rejected" json:"rejected"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// EvaluationLedger records evaluation outcomes for later audit
type EvaluationLedger interface {
	Record(ctx context.Context, rec EvaluationRecord) error
	ListRecent(ctx context.Context, limit int) ([]EvaluationRecord, error)
}

// NopLedger discards records; used when no database is configured
type NopLedger struct{}

func (NopLedger) Record(context.Context, EvaluationRecord) error { return nil }

func (NopLedger) ListRecent(context.Context, int) ([]EvaluationRecord, error) { return nil, nil }
