package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/matchup"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type MatchupRepository struct {
	db *sqlx.DB
}

func NewMatchupRepository(db *sqlx.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

func (r *MatchupRepository) UpsertMatchups(ctx context.Context, items []matchup.Matchup) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matchups: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate matchup matchup_id=%d: %w", item.MatchupID, err)
		}
		insertModel := matchupInsertModel{
			LeagueID:   item.LeagueID,
			Season:     item.Season,
			Week:       item.Week,
			MatchupID:  item.MatchupID,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			Winner:     nullableString(matchup.NormalizeWinner(item.Winner)),
		}

		query, args, err := qb.InsertModel("matchups", insertModel, `ON CONFLICT (league_id, season, week, matchup_id) WHERE deleted_at IS NULL
DO UPDATE SET
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    winner = EXCLUDED.winner,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert matchup query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert matchup matchup_id=%d: %w", item.MatchupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matchups tx: %w", err)
	}
	return nil
}

func (r *MatchupRepository) ListByWeek(ctx context.Context, leagueID int64, season, week int) ([]matchup.Matchup, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		OrderBy("matchup_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matchups query: %w", err)
	}

	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchups: %w", err)
	}

	out := make([]matchup.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchup.Matchup{
			LeagueID:   row.LeagueID,
			Season:     row.Season,
			Week:       row.Week,
			MatchupID:  row.MatchupID,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			Winner:     nullStringValue(row.Winner),
		})
	}
	return out, nil
}
