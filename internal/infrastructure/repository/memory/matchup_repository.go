package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/matchup"
)

type matchupKey struct {
	leagueID  int64
	season    int
	week      int
	matchupID int
}

type MatchupRepository struct {
	mu       sync.RWMutex
	matchups map[matchupKey]matchup.Matchup

	upsertCalls int
}

func NewMatchupRepository() *MatchupRepository {
	return &MatchupRepository{matchups: make(map[matchupKey]matchup.Matchup)}
}

func (r *MatchupRepository) UpsertMatchups(_ context.Context, items []matchup.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	for _, item := range items {
		key := matchupKey{leagueID: item.LeagueID, season: item.Season, week: item.Week, matchupID: item.MatchupID}
		item.Winner = matchup.NormalizeWinner(item.Winner)
		r.matchups[key] = item
	}
	return nil
}

func (r *MatchupRepository) ListByWeek(_ context.Context, leagueID int64, season, week int) ([]matchup.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchup.Matchup, 0, len(r.matchups))
	for key, item := range r.matchups {
		if key.leagueID == leagueID && key.season == season && key.week == week {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchupID < out[j].MatchupID })
	return out, nil
}

func (r *MatchupRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matchups)
}

func (r *MatchupRepository) UpsertCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upsertCalls
}
