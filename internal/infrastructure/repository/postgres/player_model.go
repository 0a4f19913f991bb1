package postgres

import "time"

type playerTableModel struct {
	ID                int64      `db:"id"`
	PlayerID          int64      `db:"player_id"`
	FullName          string     `db:"full_name"`
	DefaultPositionID int        `db:"default_position_id"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PlayerID          int64  `db:"player_id"`
	FullName          string `db:"full_name"`
	DefaultPositionID int    `db:"default_position_id"`
}
