package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/teamtotals"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type TeamTotalsRepository struct {
	db *sqlx.DB
}

func NewTeamTotalsRepository(db *sqlx.DB) *TeamTotalsRepository {
	return &TeamTotalsRepository{db: db}
}

func (r *TeamTotalsRepository) UpsertTotals(ctx context.Context, items []teamtotals.Totals) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]teamTotalsInsertModel, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate team totals team_id=%d: %w", item.TeamID, err)
		}
		models = append(models, teamTotalsInsertModel{
			LeagueID:       item.LeagueID,
			Season:         item.Season,
			Week:           item.Week,
			TeamID:         item.TeamID,
			TotalActual:    item.TotalActual,
			TotalProjected: item.TotalProjected,
		})
	}

	query, args, err := qb.InsertModels("team_totals", models, `ON CONFLICT (league_id, season, week, team_id) WHERE deleted_at IS NULL
DO UPDATE SET
    total_actual = EXCLUDED.total_actual,
    total_projected = EXCLUDED.total_projected,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team totals query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team totals: %w", err)
	}
	return nil
}

func (r *TeamTotalsRepository) GetByTeamWeek(ctx context.Context, leagueID int64, season, week, teamID int) (teamtotals.Totals, bool, error) {
	query, args, err := qb.Select("*").From("team_totals").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return teamtotals.Totals{}, false, fmt.Errorf("build select team totals query: %w", err)
	}

	var row teamTotalsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamtotals.Totals{}, false, nil
		}
		return teamtotals.Totals{}, false, fmt.Errorf("select team totals team_id=%d: %w", teamID, err)
	}

	return teamtotals.Totals{
		LeagueID:       row.LeagueID,
		Season:         row.Season,
		Week:           row.Week,
		TeamID:         row.TeamID,
		TotalActual:    row.TotalActual,
		TotalProjected: row.TotalProjected,
	}, true, nil
}
