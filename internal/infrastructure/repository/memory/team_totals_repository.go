package memory

import (
	"context"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/teamtotals"
)

type teamTotalsKey struct {
	leagueID int64
	season   int
	week     int
	teamID   int
}

type TeamTotalsRepository struct {
	mu     sync.RWMutex
	totals map[teamTotalsKey]teamtotals.Totals

	upsertCalls int
}

func NewTeamTotalsRepository() *TeamTotalsRepository {
	return &TeamTotalsRepository{totals: make(map[teamTotalsKey]teamtotals.Totals)}
}

func (r *TeamTotalsRepository) UpsertTotals(_ context.Context, items []teamtotals.Totals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	for _, item := range items {
		key := teamTotalsKey{leagueID: item.LeagueID, season: item.Season, week: item.Week, teamID: item.TeamID}
		r.totals[key] = item
	}
	return nil
}

func (r *TeamTotalsRepository) GetByTeamWeek(_ context.Context, leagueID int64, season, week, teamID int) (teamtotals.Totals, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.totals[teamTotalsKey{leagueID: leagueID, season: season, week: week, teamID: teamID}]
	return item, ok, nil
}

func (r *TeamTotalsRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.totals)
}

func (r *TeamTotalsRepository) UpsertCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upsertCalls
}
