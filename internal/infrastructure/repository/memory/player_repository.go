package memory

import (
	"context"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player

	upsertCalls int
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[int64]player.Player)}
}

func (r *PlayerRepository) UpsertPlayers(_ context.Context, items []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	for _, item := range items {
		if item.PlayerID == 0 {
			continue
		}
		r.players[item.PlayerID] = item
	}
	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func (r *PlayerRepository) UpsertCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upsertCalls
}
