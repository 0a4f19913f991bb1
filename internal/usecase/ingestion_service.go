package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ffdata/league-sync/internal/domain/matchup"
	"github.com/ffdata/league-sync/internal/domain/player"
	"github.com/ffdata/league-sync/internal/domain/playerline"
	"github.com/ffdata/league-sync/internal/domain/rawdata"
	"github.com/ffdata/league-sync/internal/domain/team"
	"github.com/ffdata/league-sync/internal/domain/teamtotals"
	"github.com/ffdata/league-sync/internal/platform/logging"
)

// Collection identifiers reported in write outcomes.
const (
	CollectionPlayers    = "players"
	CollectionTeams      = "teams"
	CollectionMatchups   = "matchups"
	CollectionLines      = "player_lines"
	CollectionTeamTotals = "team_totals"
)

// CollectionOutcome records how one collection's batch went. Rows counts the
// staged rows regardless of outcome.
type CollectionOutcome struct {
	Collection string `json:"collection"`
	Rows       int    `json:"rows"`
	Written    bool   `json:"written"`
	Error      string `json:"error,omitempty"`
}

// WriteReport is the result of writing a week snapshot. Collections are
// independent: one failing batch does not stop the others, and the report
// carries each outcome so a rerun can be judged per collection.
type WriteReport struct {
	Outcomes []CollectionOutcome `json:"outcomes"`
}

func (r WriteReport) Rows(collection string) int {
	for _, outcome := range r.Outcomes {
		if outcome.Collection == collection {
			return outcome.Rows
		}
	}
	return 0
}

func (r WriteReport) FailedCollections() []string {
	var failed []string
	for _, outcome := range r.Outcomes {
		if !outcome.Written {
			failed = append(failed, outcome.Collection)
		}
	}
	return failed
}

// IngestionService writes a week snapshot to the five sync collections plus
// the raw payload archive. All writes are idempotent upserts on natural keys;
// reference rows (players, teams) land before the rows that point at them.
type IngestionService struct {
	playerRepo  player.Repository
	teamRepo    team.Repository
	matchupRepo matchup.Repository
	lineRepo    playerline.Repository
	totalsRepo  teamtotals.Repository
	rawDataRepo rawdata.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewIngestionService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	matchupRepo matchup.Repository,
	lineRepo playerline.Repository,
	totalsRepo teamtotals.Repository,
	rawDataRepo rawdata.Repository,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		matchupRepo: matchupRepo,
		lineRepo:    lineRepo,
		totalsRepo:  totalsRepo,
		rawDataRepo: rawDataRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// WriteWeek persists the snapshot. Every staged row is validated before its
// collection commits; an invalid row fails that collection's batch without
// blocking the others. It returns the per-collection report and, when any
// collection failed, an error wrapping ErrWrite that names them. A non-nil
// error still comes with a complete report.
func (s *IngestionService) WriteWeek(ctx context.Context, snapshot WeekSnapshot) (WriteReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.WriteWeek")
	defer span.End()

	if snapshot.LeagueID == 0 {
		return WriteReport{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if snapshot.Week <= 0 {
		return WriteReport{}, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	updatedAt := s.now().UTC()
	lines := make([]playerline.Line, len(snapshot.Lines))
	copy(lines, snapshot.Lines)
	for idx := range lines {
		lines[idx].UpdatedAt = updatedAt
	}

	totals := buildTeamTotals(snapshot)

	report := WriteReport{Outcomes: make([]CollectionOutcome, 0, 5)}
	report.Outcomes = append(report.Outcomes, s.writeBatch(ctx, CollectionPlayers, len(snapshot.Players), func() error {
		if len(snapshot.Players) == 0 {
			return nil
		}
		for _, item := range snapshot.Players {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate player player_id=%d: %w", item.PlayerID, err)
			}
		}
		return s.playerRepo.UpsertPlayers(ctx, snapshot.Players)
	}))
	report.Outcomes = append(report.Outcomes, s.writeBatch(ctx, CollectionTeams, len(snapshot.Teams), func() error {
		if len(snapshot.Teams) == 0 {
			return nil
		}
		for _, item := range snapshot.Teams {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate team team_id=%d: %w", item.TeamID, err)
			}
		}
		return s.teamRepo.UpsertTeams(ctx, snapshot.Teams)
	}))
	report.Outcomes = append(report.Outcomes, s.writeBatch(ctx, CollectionMatchups, len(snapshot.Matchups), func() error {
		if len(snapshot.Matchups) == 0 {
			return nil
		}
		for _, item := range snapshot.Matchups {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate matchup matchup_id=%d: %w", item.MatchupID, err)
			}
		}
		return s.matchupRepo.UpsertMatchups(ctx, snapshot.Matchups)
	}))
	report.Outcomes = append(report.Outcomes, s.writeBatch(ctx, CollectionLines, len(lines), func() error {
		if len(lines) == 0 {
			return nil
		}
		for _, item := range lines {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate player line team_id=%d player_id=%d: %w", item.TeamID, item.PlayerID, err)
			}
		}
		return s.lineRepo.UpsertLines(ctx, lines)
	}))
	report.Outcomes = append(report.Outcomes, s.writeBatch(ctx, CollectionTeamTotals, len(totals), func() error {
		if len(totals) == 0 {
			return nil
		}
		for _, item := range totals {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("validate team totals team_id=%d: %w", item.TeamID, err)
			}
		}
		return s.totalsRepo.UpsertTotals(ctx, totals)
	}))

	if failed := report.FailedCollections(); len(failed) > 0 {
		return report, fmt.Errorf("%w: %s", ErrWrite, strings.Join(failed, ", "))
	}
	return report, nil
}

func (s *IngestionService) writeBatch(ctx context.Context, collection string, rows int, write func() error) CollectionOutcome {
	outcome := CollectionOutcome{Collection: collection, Rows: rows}
	if err := write(); err != nil {
		outcome.Error = err.Error()
		s.logger.ErrorContext(ctx, "collection batch failed", "collection", collection, "rows", rows, "error", err)
		return outcome
	}
	outcome.Written = true
	return outcome
}

// ArchiveRawPayloads stores the upstream responses behind a snapshot. Best
// effort: a missing repo or a failed write never fails the sync.
func (s *IngestionService) ArchiveRawPayloads(ctx context.Context, items []rawdata.Payload) {
	if s.rawDataRepo == nil || len(items) == 0 {
		return
	}

	cleaned := make([]rawdata.Payload, 0, len(items))
	for _, item := range items {
		item.Source = strings.ToLower(strings.TrimSpace(item.Source))
		item.EntityType = strings.ToLower(strings.TrimSpace(item.EntityType))
		item.EntityKey = strings.TrimSpace(item.EntityKey)
		item.PayloadJSON = strings.TrimSpace(item.PayloadJSON)
		if item.EntityType == "" || item.EntityKey == "" || item.PayloadJSON == "" {
			continue
		}

		hash := sha256.Sum256([]byte(item.PayloadJSON))
		item.PayloadHash = hex.EncodeToString(hash[:])
		cleaned = append(cleaned, item)
	}
	if len(cleaned) == 0 {
		return
	}

	if err := s.rawDataRepo.UpsertMany(ctx, cleaned); err != nil {
		s.logger.WarnContext(ctx, "raw payload archive failed", "count", len(cleaned), "error", err)
	}
}

// buildTeamTotals recomputes every team's starter sum from the staged lines.
// Totals are never incremented in place; a rerun over changed rosters must
// converge to the same numbers.
func buildTeamTotals(snapshot WeekSnapshot) []teamtotals.Totals {
	byTeam := make(map[int]*teamtotals.Totals, len(snapshot.Teams))
	for _, item := range snapshot.Teams {
		byTeam[item.TeamID] = &teamtotals.Totals{
			LeagueID: snapshot.LeagueID,
			Season:   snapshot.Season,
			Week:     snapshot.Week,
			TeamID:   item.TeamID,
		}
	}

	for _, line := range snapshot.Lines {
		totals, ok := byTeam[line.TeamID]
		if !ok {
			totals = &teamtotals.Totals{
				LeagueID: snapshot.LeagueID,
				Season:   snapshot.Season,
				Week:     snapshot.Week,
				TeamID:   line.TeamID,
			}
			byTeam[line.TeamID] = totals
		}
		if !line.IsStarter {
			continue
		}
		totals.TotalActual += line.PointsActual
		totals.TotalProjected += line.PointsProjected
	}

	out := make([]teamtotals.Totals, 0, len(byTeam))
	for _, totals := range byTeam {
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}
