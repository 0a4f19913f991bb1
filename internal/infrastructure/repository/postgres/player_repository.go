package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/player"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) UpsertPlayers(ctx context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]playerInsertModel, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate player player_id=%d: %w", item.PlayerID, err)
		}
		models = append(models, playerInsertModel{
			PlayerID:          item.PlayerID,
			FullName:          strings.TrimSpace(item.FullName),
			DefaultPositionID: item.DefaultPositionID,
		})
	}

	query, args, err := qb.InsertModels("players", models, `ON CONFLICT (player_id) WHERE deleted_at IS NULL
DO UPDATE SET
    full_name = EXCLUDED.full_name,
    default_position_id = EXCLUDED.default_position_id,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("player_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player player_id=%d: %w", playerID, err)
	}

	return player.Player{
		PlayerID:          row.PlayerID,
		FullName:          row.FullName,
		DefaultPositionID: row.DefaultPositionID,
	}, true, nil
}
