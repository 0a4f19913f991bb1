package teamtotals

import "context"

type Repository interface {
	UpsertTotals(ctx context.Context, items []Totals) error
	GetByTeamWeek(ctx context.Context, leagueID int64, season, week, teamID int) (Totals, bool, error)
}
