package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/playerline"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type PlayerLineRepository struct {
	db *sqlx.DB
}

func NewPlayerLineRepository(db *sqlx.DB) *PlayerLineRepository {
	return &PlayerLineRepository{db: db}
}

func (r *PlayerLineRepository) UpsertLines(ctx context.Context, items []playerline.Line) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert player lines: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate player line team_id=%d player_id=%d: %w", item.TeamID, item.PlayerID, err)
		}
		insertModel := playerLineInsertModel{
			LeagueID:          item.LeagueID,
			Season:            item.Season,
			Week:              item.Week,
			TeamID:            item.TeamID,
			PlayerID:          item.PlayerID,
			LineupSlotID:      item.LineupSlotID,
			IsStarter:         item.IsStarter,
			PointsActual:      item.PointsActual,
			PointsProjected:   item.PointsProjected,
			DefaultPositionID: item.DefaultPositionID,
		}

		query, args, err := qb.InsertModel("player_lines", insertModel, `ON CONFLICT (league_id, season, week, team_id, player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    lineup_slot_id = EXCLUDED.lineup_slot_id,
    is_starter = EXCLUDED.is_starter,
    points_actual = EXCLUDED.points_actual,
    points_projected = EXCLUDED.points_projected,
    default_position_id = EXCLUDED.default_position_id,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert player line query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player line team_id=%d player_id=%d: %w", item.TeamID, item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert player lines tx: %w", err)
	}
	return nil
}

func (r *PlayerLineRepository) ListByTeamWeek(ctx context.Context, leagueID int64, season, week, teamID int) ([]playerline.Line, error) {
	query, args, err := qb.Select("*").From("player_lines").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player lines query: %w", err)
	}

	var rows []playerLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player lines: %w", err)
	}

	out := make([]playerline.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerline.Line{
			LeagueID:          row.LeagueID,
			Season:            row.Season,
			Week:              row.Week,
			TeamID:            row.TeamID,
			PlayerID:          row.PlayerID,
			LineupSlotID:      row.LineupSlotID,
			IsStarter:         row.IsStarter,
			PointsActual:      row.PointsActual,
			PointsProjected:   row.PointsProjected,
			DefaultPositionID: row.DefaultPositionID,
			UpdatedAt:         row.UpdatedAt,
		})
	}
	return out, nil
}
