package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/team"
)

type teamKey struct {
	leagueID int64
	season   int
	teamID   int
}

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[teamKey]team.Team

	upsertCalls int
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[teamKey]team.Team)}
}

func (r *TeamRepository) UpsertTeams(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	for _, item := range items {
		key := teamKey{leagueID: item.LeagueID, season: item.Season, teamID: item.TeamID}
		r.teams[key] = item
	}
	return nil
}

func (r *TeamRepository) ListByLeagueSeason(_ context.Context, leagueID int64, season int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for key, item := range r.teams {
		if key.leagueID == leagueID && key.season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (r *TeamRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams)
}

func (r *TeamRepository) UpsertCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upsertCalls
}
