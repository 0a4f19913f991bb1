package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/team"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate team team_id=%d: %w", item.TeamID, err)
		}
		insertModel := teamInsertModel{
			LeagueID:  item.LeagueID,
			Season:    item.Season,
			TeamID:    item.TeamID,
			Name:      strings.TrimSpace(item.Name),
			Abbrev:    strings.TrimSpace(item.Abbrev),
			LogoURL:   nullableString(item.LogoURL),
			OwnerName: nullableString(item.OwnerName),
		}

		query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (league_id, season, team_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    abbrev = EXCLUDED.abbrev,
    logo_url = EXCLUDED.logo_url,
    owner_name = EXCLUDED.owner_name,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team team_id=%d: %w", item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) ListByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			LeagueID:  row.LeagueID,
			Season:    row.Season,
			TeamID:    row.TeamID,
			Name:      row.Name,
			Abbrev:    row.Abbrev,
			LogoURL:   nullStringValue(row.LogoURL),
			OwnerName: nullStringValue(row.OwnerName),
		})
	}
	return out, nil
}
