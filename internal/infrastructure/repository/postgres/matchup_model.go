package postgres

import (
	"database/sql"
	"time"
)

type matchupTableModel struct {
	ID         int64          `db:"id"`
	LeagueID   int64          `db:"league_id"`
	Season     int            `db:"season"`
	Week       int            `db:"week"`
	MatchupID  int            `db:"matchup_id"`
	HomeTeamID int            `db:"home_team_id"`
	AwayTeamID int            `db:"away_team_id"`
	Winner     sql.NullString `db:"winner"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
	DeletedAt  *time.Time     `db:"deleted_at"`
}

type matchupInsertModel struct {
	LeagueID   int64          `db:"league_id"`
	Season     int            `db:"season"`
	Week       int            `db:"week"`
	MatchupID  int            `db:"matchup_id"`
	HomeTeamID int            `db:"home_team_id"`
	AwayTeamID int            `db:"away_team_id"`
	Winner     sql.NullString `db:"winner"`
}
