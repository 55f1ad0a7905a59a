// Package api assembles the read-mostly HTTP surface over the persisted
// pipeline output. The API never writes through the batch loader; its only
// mutations are the device-reading upsert and delete.
package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/platform/db"
	"github.com/healthpipe/healthpipe/internal/platform/middleware"
)

// NewServer builds the echo application with all routes registered.
func NewServer(pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))

	e.GET("/health", db.HealthHandler(pool))

	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	readingSvc := reading.NewService(reading.NewRepoPG(pool), patientRepo)

	apiGroup := e.Group("/api")
	patient.NewHandler(patientSvc).RegisterRoutes(apiGroup)
	reading.NewHandler(readingSvc).RegisterRoutes(apiGroup)
	quarantine.NewHandler(quarantine.NewRepoPG(pool)).RegisterRoutes(apiGroup)

	return e
}
