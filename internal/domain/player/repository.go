package player

import "context"

type Repository interface {
	UpsertPlayers(ctx context.Context, items []Player) error
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
}
