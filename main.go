package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simrng/adapters/postgres"
	"simrng/internal/config"
	"simrng/internal/container"
	apperrors "simrng/internal/errors"
	"simrng/internal/logging"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// initDatabase connects the optional evaluation ledger
func initDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(connectCtx, cfg.Database.URL)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lvl, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.Logging.Format, lvl)
	if err != nil {
		return err
	}
	if envErr != nil {
		logger.Debug("no .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
		logger.Info("evaluation ledger enabled")
	}
	defer c.Shutdown(context.Background())

	servers := []*http.Server{{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.APIHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.Admin.Enabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.Admin.Port,
			Handler:           c.AdminHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown failed", "addr", srv.Addr, "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}
