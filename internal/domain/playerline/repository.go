package playerline

import "context"

type Repository interface {
	UpsertLines(ctx context.Context, items []Line) error
	ListByTeamWeek(ctx context.Context, leagueID int64, season, week, teamID int) ([]Line, error)
}
