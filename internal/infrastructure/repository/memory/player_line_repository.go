package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/playerline"
)

type playerLineKey struct {
	leagueID int64
	season   int
	week     int
	teamID   int
	playerID int64
}

type PlayerLineRepository struct {
	mu    sync.RWMutex
	lines map[playerLineKey]playerline.Line

	upsertCalls int
	failNext    error
}

func NewPlayerLineRepository() *PlayerLineRepository {
	return &PlayerLineRepository{lines: make(map[playerLineKey]playerline.Line)}
}

// FailNext makes the next upsert return err once. Used to exercise the
// per-collection failure handling in the writer.
func (r *PlayerLineRepository) FailNext(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

func (r *PlayerLineRepository) UpsertLines(_ context.Context, items []playerline.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}

	for _, item := range items {
		key := playerLineKey{
			leagueID: item.LeagueID,
			season:   item.Season,
			week:     item.Week,
			teamID:   item.TeamID,
			playerID: item.PlayerID,
		}
		r.lines[key] = item
	}
	return nil
}

func (r *PlayerLineRepository) ListByTeamWeek(_ context.Context, leagueID int64, season, week, teamID int) ([]playerline.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerline.Line, 0, len(r.lines))
	for key, item := range r.lines {
		if key.leagueID == leagueID && key.season == season && key.week == week && key.teamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *PlayerLineRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lines)
}

func (r *PlayerLineRepository) UpsertCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upsertCalls
}
