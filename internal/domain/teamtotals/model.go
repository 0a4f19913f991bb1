package teamtotals

import "fmt"

// Totals carries a team's weekly starter-only point sums, keyed by
// (LeagueID, Season, Week, TeamID). Sums are recomputed from scratch on every
// sync, never incremented, which is what keeps re-ingestion idempotent.
type Totals struct {
	LeagueID       int64
	Season         int
	Week           int
	TeamID         int
	TotalActual    float64
	TotalProjected float64
}

func (t Totals) Validate() error {
	if t.LeagueID <= 0 {
		return fmt.Errorf("team totals league id must be greater than zero")
	}
	if t.Season <= 0 || t.Week <= 0 {
		return fmt.Errorf("team totals season and week must be greater than zero")
	}
	if t.TeamID <= 0 {
		return fmt.Errorf("team totals team id must be greater than zero")
	}

	return nil
}
