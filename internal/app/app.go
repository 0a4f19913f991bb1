package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ffdata/league-sync/external/espn"
	"github.com/ffdata/league-sync/internal/config"
	"github.com/ffdata/league-sync/internal/infrastructure/repository/postgres"
	"github.com/ffdata/league-sync/internal/interfaces/httpapi"
	"github.com/ffdata/league-sync/internal/platform/logging"
	"github.com/ffdata/league-sync/internal/platform/resilience"
	"github.com/ffdata/league-sync/internal/usecase"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
)

// NewHTTPServer wires the full ingestion stack behind one HTTP server.
// The returned close function releases the database pool and must be
// called after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	db, err := connectDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	matchupRepo := postgres.NewMatchupRepository(db)
	lineRepo := postgres.NewPlayerLineRepository(db)
	totalsRepo := postgres.NewTeamTotalsRepository(db)
	rawDataRepo := postgres.NewRawDataRepository(db)

	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		LeagueID:   cfg.ESPNLeagueID,
		Season:     cfg.ESPNSeason,
		SWID:       cfg.ESPNSWID,
		ESPNS2:     cfg.ESPNS2,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	ingestionSvc := usecase.NewIngestionService(
		playerRepo,
		teamRepo,
		matchupRepo,
		lineRepo,
		totalsRepo,
		rawDataRepo,
		logger,
	)
	syncSvc := usecase.NewSyncService(
		usecase.SyncConfig{
			Season:          cfg.ESPNSeason,
			TotalWeeks:      cfg.SyncTotalWeeks,
			BackfillWorkers: cfg.BackfillWorkers,
			BackfillRate:    cfg.BackfillRatePerSec,
			ReingestDepth:   cfg.ReingestDepth,
		},
		espnClient,
		ingestionSvc,
		logger,
	)

	handler := httpapi.NewHandler(syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	return db, nil
}
