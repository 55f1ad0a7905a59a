package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthpipe/healthpipe/internal/api"
	"github.com/healthpipe/healthpipe/internal/config"
	"github.com/healthpipe/healthpipe/internal/etl"
	"github.com/healthpipe/healthpipe/internal/etl/extract"
	"github.com/healthpipe/healthpipe/internal/etl/load"
	"github.com/healthpipe/healthpipe/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthpipe",
		Short: "Patient and device-reading ingestion pipeline",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var w io.Writer = os.Stderr
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if v, _ := cmd.Flags().GetString("patients"); v != "" {
				cfg.PatientsFile = v
			}
			if v, _ := cmd.Flags().GetString("readings"); v != "" {
				cfg.ReadingsFile = v
			}
			patientsFormat, err := extract.ParseFormat(cfg.PatientsFormat)
			if err != nil {
				return err
			}
			readingsFormat, err := extract.ParseFormat(cfg.ReadingsFormat)
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := db.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			runner := etl.NewRunner(load.NewPGLoader(pool), logger)
			summary, err := runner.Run(ctx,
				etl.Source{Path: cfg.PatientsFile, Format: patientsFormat},
				etl.Source{Path: cfg.ReadingsFile, Format: readingsFormat},
			)
			if err != nil {
				return err
			}

			logger.Info().
				Str("run_id", summary.RunID).
				Int("extracted_patients", summary.ExtractedPatients).
				Int("extracted_readings", summary.ExtractedReadings).
				Int("valid_patients", summary.ValidPatients).
				Int("valid_readings", summary.ValidReadings).
				Int("error_records", summary.ErrorRecords).
				Msg("pipeline finished")
			return nil
		},
	}
	cmd.Flags().String("patients", "", "patient source file (overrides PATIENTS_FILE)")
	cmd.Flags().String("readings", "", "device-reading source file (overrides READINGS_FILE)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the read API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := db.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			e := api.NewServer(pool, logger)

			go func() {
				logger.Info().Str("port", cfg.Port).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Error().Err(err).Msg("server stopped")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := db.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
			logger.Info().Msg("schema ready")
			return nil
		},
	}
}
