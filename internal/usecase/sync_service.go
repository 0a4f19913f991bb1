package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/ffdata/league-sync/internal/platform/logging"
)

const (
	defaultTotalWeeks      = 18
	defaultBackfillWorkers = 1
	defaultReingestDepth   = 2
)

type SyncConfig struct {
	Season     int
	TotalWeeks int
	// BackfillWorkers bounds concurrent week syncs during a season backfill.
	BackfillWorkers int
	// BackfillRate caps upstream fetches per second across all workers.
	BackfillRate float64
	// ReingestDepth is how many trailing weeks ReingestRecent covers when the
	// caller does not say.
	ReingestDepth int
}

func (c SyncConfig) normalized() SyncConfig {
	if c.TotalWeeks <= 0 {
		c.TotalWeeks = defaultTotalWeeks
	}
	if c.BackfillWorkers <= 0 {
		c.BackfillWorkers = defaultBackfillWorkers
	}
	if c.BackfillRate <= 0 {
		c.BackfillRate = 1
	}
	if c.ReingestDepth <= 0 {
		c.ReingestDepth = defaultReingestDepth
	}
	return c
}

// SyncResult is the outcome of one week sync. Failures are carried in the
// result instead of surfacing as transport-level errors so batch callers can
// aggregate them.
type SyncResult struct {
	Success     bool   `json:"success"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	Teams       int    `json:"teams"`
	Players     int    `json:"players"`
	Matchups    int    `json:"matchups"`
	PlayerLines int    `json:"player_lines"`
	TeamTotals  int    `json:"team_totals"`
	Error       string `json:"error,omitempty"`
}

// BackfillResult aggregates per-week outcomes. SucceededCount plus
// FailedCount always equals len(Weeks).
type BackfillResult struct {
	Season         int          `json:"season"`
	TotalWeeks     int          `json:"total_weeks"`
	SucceededCount int          `json:"succeeded_count"`
	FailedCount    int          `json:"failed_count"`
	WorkerCount    int          `json:"worker_count"`
	Weeks          []SyncResult `json:"weeks"`
}

// SyncService orchestrates week syncs against the upstream provider. It is
// the error boundary of the pipeline: every public method classifies and
// absorbs failures into its result.
type SyncService struct {
	cfg       SyncConfig
	provider  WeekDataProvider
	ingestion *IngestionService
	limiter   *rate.Limiter
	logger    *logging.Logger
}

func NewSyncService(cfg SyncConfig, provider WeekDataProvider, ingestion *IngestionService, logger *logging.Logger) *SyncService {
	cfg = cfg.normalized()
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		cfg:       cfg,
		provider:  provider,
		ingestion: ingestion,
		limiter:   rate.NewLimiter(rate.Limit(cfg.BackfillRate), 1),
		logger:    logger,
	}
}

// SyncWeek ingests one week. A non-positive week resolves to the league's
// current matchup period. Nothing is written when the upstream returns zero
// teams; a partial write failure still reports the collections that landed.
func (s *SyncService) SyncWeek(ctx context.Context, week int) SyncResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncWeek")
	defer span.End()

	result := SyncResult{Season: s.cfg.Season, Week: week}

	if s.provider == nil || s.ingestion == nil {
		result.Error = "sync service is not fully configured"
		return result
	}

	if week <= 0 {
		current, err := s.provider.CurrentWeek(ctx)
		if err != nil {
			result.Error = fmt.Sprintf("resolve current week: %v", classifySyncError(err))
			return result
		}
		week = current
		result.Week = week
	}

	bundle, err := s.provider.FetchWeek(ctx, week)
	if err != nil {
		result.Error = fmt.Sprintf("fetch week %d: %v", week, classifySyncError(err))
		return result
	}
	if len(bundle.Teams) == 0 {
		result.Error = fmt.Sprintf("week %d: %v", week, ErrEmptyUpstream)
		return result
	}
	if bundle.Season != 0 {
		result.Season = bundle.Season
	}

	snapshot := BuildWeekSnapshot(bundle)
	s.ingestion.ArchiveRawPayloads(ctx, bundle.RawPayloads)

	report, writeErr := s.ingestion.WriteWeek(ctx, snapshot)
	result.Teams = report.Rows(CollectionTeams)
	result.Players = report.Rows(CollectionPlayers)
	result.Matchups = report.Rows(CollectionMatchups)
	result.PlayerLines = report.Rows(CollectionLines)
	result.TeamTotals = report.Rows(CollectionTeamTotals)
	if writeErr != nil {
		result.Error = writeErr.Error()
		return result
	}

	result.Success = true
	s.logger.InfoContext(ctx, "week synced",
		"season", result.Season,
		"week", result.Week,
		"teams", result.Teams,
		"player_lines", result.PlayerLines,
	)
	return result
}

// BackfillSeason replays every week of the season through the worker pool,
// pacing upstream fetches with the configured rate limiter. Individual week
// failures are recorded and never stop the remaining weeks.
func (s *SyncService) BackfillSeason(ctx context.Context) BackfillResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.BackfillSeason")
	defer span.End()

	weeks := make([]int, 0, s.cfg.TotalWeeks)
	for week := 1; week <= s.cfg.TotalWeeks; week++ {
		weeks = append(weeks, week)
	}
	return s.syncWeeks(ctx, weeks)
}

// ReingestRecent re-syncs the current week and the depth-1 weeks before it,
// dropping any week that would fall before the season start. Stat corrections
// land upstream days after games finish, so recent weeks go stale.
func (s *SyncService) ReingestRecent(ctx context.Context, depth int) BackfillResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ReingestRecent")
	defer span.End()

	if depth <= 0 {
		depth = s.cfg.ReingestDepth
	}

	result := BackfillResult{Season: s.cfg.Season, WorkerCount: s.cfg.BackfillWorkers}
	if s.provider == nil {
		return result
	}
	current, err := s.provider.CurrentWeek(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve current week failed", "error", classifySyncError(err))
		return result
	}

	weeks := make([]int, 0, depth)
	for week := current - depth + 1; week <= current; week++ {
		if week <= 0 {
			continue
		}
		weeks = append(weeks, week)
	}
	return s.syncWeeks(ctx, weeks)
}

func (s *SyncService) syncWeeks(ctx context.Context, weeks []int) BackfillResult {
	workerCount := s.cfg.BackfillWorkers
	if workerCount > len(weeks) && len(weeks) > 0 {
		workerCount = len(weeks)
	}

	result := BackfillResult{
		Season:      s.cfg.Season,
		TotalWeeks:  len(weeks),
		WorkerCount: workerCount,
		Weeks:       make([]SyncResult, 0, len(weeks)),
	}
	if len(weeks) == 0 {
		return result
	}

	results := make(chan SyncResult, len(weeks))
	var succeeded atomic.Int32
	var failed atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		for _, week := range weeks {
			result.Weeks = append(result.Weeks, SyncResult{
				Season: s.cfg.Season,
				Week:   week,
				Error:  fmt.Sprintf("create worker pool: %v", err),
			})
		}
		result.FailedCount = len(weeks)
		return result
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, week := range weeks {
		week := week
		workers.Add(1)
		submitErr := pool.Submit(func() {
			defer workers.Done()

			row := SyncResult{Season: s.cfg.Season, Week: week}
			if err := s.limiter.Wait(ctx); err != nil {
				row.Error = fmt.Sprintf("rate limiter: %v", err)
			} else {
				row = s.SyncWeek(ctx, week)
			}

			if row.Success {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			results <- row
		})
		if submitErr != nil {
			workers.Done()
			failed.Add(1)
			results <- SyncResult{
				Season: s.cfg.Season,
				Week:   week,
				Error:  fmt.Sprintf("submit week to worker pool: %v", submitErr),
			}
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Weeks = append(result.Weeks, row)
	}
	sort.SliceStable(result.Weeks, func(i, j int) bool {
		return result.Weeks[i].Week < result.Weeks[j].Week
	})

	result.SucceededCount = int(succeeded.Load())
	result.FailedCount = int(failed.Load())
	return result
}

// classifySyncError folds unknown upstream failures into the transport
// bucket; already-classified errors pass through untouched.
func classifySyncError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrTransport),
		errors.Is(err, ErrEmptyUpstream),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

