package container

import (
	"context"
	"fmt"
	"net/http"

	"simrng/adapters/api"
	"simrng/adapters/postgres"
	"simrng/app"
	"simrng/internal/analysis/goodness"
	"simrng/internal/config"
	"simrng/internal/errors"
	"simrng/internal/logging"
	"simrng/internal/metrics"
	"simrng/internal/migration"
	"simrng/internal/session"
	"simrng/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *metrics.Metrics

	// Infrastructure
	DB     *sqlx.DB
	Ledger ports.EvaluationLedger

	// State and services
	Store      *session.Store
	Jobs       *app.Jobs
	Generation *app.GenerationService
	Statistics *app.StatisticsService
}

// New creates a new dependency injection container. The ledger is a no-op
// until InitWithDatabase is called.
func New(cfg *config.Config, logger *logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
		Ledger:  ports.NopLedger{},
		Store:   session.NewStore(),
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// InitWithDatabase connects the evaluation ledger to PostgreSQL and runs
// migrations.
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("failed to ping database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	c.DB = db
	c.Ledger = postgres.NewEvaluationRepository(db)
	return c.initServices()
}

func (c *Container) initServices() error {
	stats := c.Config.Statistics
	resolver, err := goodness.ResolverFor(stats.CriticalMethod)
	if err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	c.Jobs = app.NewJobs(stats.MaxConcurrentJobs, c.Metrics)
	c.Generation = app.NewGenerationService(
		c.Store, c.Jobs, c.Metrics, c.Logger.With("component", "generation"),
		c.Config.Generation.MaxSampleCount, c.Config.Generation.PageSize,
	)
	c.Statistics = app.NewStatisticsService(
		c.Store, c.Jobs, c.Ledger, c.Metrics, c.Logger.With("component", "statistics"),
		app.StatisticsOptions{
			Alpha:     stats.SignificanceLevel,
			Threshold: stats.MinExpectedCount,
			Resolver:  resolver,
			Workers:   stats.Workers,
		},
	)
	return nil
}

// APIHandler returns the public API handler
func (c *Container) APIHandler() http.Handler {
	return api.NewServer(api.Options{
		GinMode:     c.Config.Server.GinMode,
		CORSOrigins: c.Config.Server.CORSOrigins,
	}, c.Generation, c.Statistics, c.Logger.With("component", "api")).Handler()
}

// AdminHandler returns the health, metrics and profiling handler
func (c *Container) AdminHandler() http.Handler {
	return api.NewAdminRouter(c.Metrics.Registry, c.Generation)
}

// Shutdown releases held resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
