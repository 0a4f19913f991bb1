package postgres

import "time"

type teamTotalsTableModel struct {
	ID             int64      `db:"id"`
	LeagueID       int64      `db:"league_id"`
	Season         int        `db:"season"`
	Week           int        `db:"week"`
	TeamID         int        `db:"team_id"`
	TotalActual    float64    `db:"total_actual"`
	TotalProjected float64    `db:"total_projected"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type teamTotalsInsertModel struct {
	LeagueID       int64   `db:"league_id"`
	Season         int     `db:"season"`
	Week           int     `db:"week"`
	TeamID         int     `db:"team_id"`
	TotalActual    float64 `db:"total_actual"`
	TotalProjected float64 `db:"total_projected"`
}
