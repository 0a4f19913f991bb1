package postgres

import "time"

type playerLineTableModel struct {
	ID                int64      `db:"id"`
	LeagueID          int64      `db:"league_id"`
	Season            int        `db:"season"`
	Week              int        `db:"week"`
	TeamID            int        `db:"team_id"`
	PlayerID          int64      `db:"player_id"`
	LineupSlotID      int        `db:"lineup_slot_id"`
	IsStarter         bool       `db:"is_starter"`
	PointsActual      float64    `db:"points_actual"`
	PointsProjected   float64    `db:"points_projected"`
	DefaultPositionID int        `db:"default_position_id"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type playerLineInsertModel struct {
	LeagueID          int64   `db:"league_id"`
	Season            int     `db:"season"`
	Week              int     `db:"week"`
	TeamID            int     `db:"team_id"`
	PlayerID          int64   `db:"player_id"`
	LineupSlotID      int     `db:"lineup_slot_id"`
	IsStarter         bool    `db:"is_starter"`
	PointsActual      float64 `db:"points_actual"`
	PointsProjected   float64 `db:"points_projected"`
	DefaultPositionID int     `db:"default_position_id"`
}
