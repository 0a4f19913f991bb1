package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64          `db:"id"`
	LeagueID  int64          `db:"league_id"`
	Season    int            `db:"season"`
	TeamID    int            `db:"team_id"`
	Name      string         `db:"name"`
	Abbrev    string         `db:"abbrev"`
	LogoURL   sql.NullString `db:"logo_url"`
	OwnerName sql.NullString `db:"owner_name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type teamInsertModel struct {
	LeagueID  int64          `db:"league_id"`
	Season    int            `db:"season"`
	TeamID    int            `db:"team_id"`
	Name      string         `db:"name"`
	Abbrev    string         `db:"abbrev"`
	LogoURL   sql.NullString `db:"logo_url"`
	OwnerName sql.NullString `db:"owner_name"`
}
