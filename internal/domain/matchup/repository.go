package matchup

import "context"

type Repository interface {
	UpsertMatchups(ctx context.Context, items []Matchup) error
	ListByWeek(ctx context.Context, leagueID int64, season, week int) ([]Matchup, error)
}
