package migration

import (
	"context"

	"simrng/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every statement is
// idempotent so Run is safe on every start.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.DatabaseError("failed to "+step.Name, err)
		}
	}
	return nil
}

// Step is one named schema statement
type Step struct {
	Name string
	SQL  string
}

// Steps returns the schema statements in execution order.
func Steps() []Step {
	return []Step{
		{Name: "create evaluations table", SQL: createEvaluationsTable},
		{Name: "create evaluations indexes", SQL: createEvaluationsIndexes},
	}
}

const createEvaluationsTable = `
	CREATE TABLE IF NOT EXISTS evaluations (
		id                 UUID PRIMARY KEY,
		generation_id      UUID NOT NULL,
		sample_hash        VARCHAR(64) NOT NULL,
		distribution       VARCHAR(32) NOT NULL,
		parameters         JSONB NOT NULL DEFAULT '{}',
		seed               BIGINT NOT NULL,
		sample_count       INTEGER NOT NULL,
		intervals          INTEGER NOT NULL,
		merged_intervals   INTEGER NOT NULL,
		degrees_of_freedom INTEGER NOT NULL,
		alpha              DOUBLE PRECISION NOT NULL,
		calculated         DOUBLE PRECISION NOT NULL,
		critical           DOUBLE PRECISION NOT NULL,
		p_value            DOUBLE PRECISION NOT NULL,
		rejected           BOOLEAN NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const createEvaluationsIndexes = `
	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_generation_id ON evaluations (generation_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_distribution ON evaluations (distribution)
`
