package playerline

import (
	"fmt"
	"time"
)

// Line is the weekly unit of truth for "what did player X score for team Y in
// week Z". The natural key is (LeagueID, Season, Week, TeamID, PlayerID);
// re-ingesting a week overwrites the row in place.
type Line struct {
	LeagueID          int64
	Season            int
	Week              int
	TeamID            int
	PlayerID          int64
	LineupSlotID      int
	IsStarter         bool
	PointsActual      float64
	PointsProjected   float64
	DefaultPositionID int
	UpdatedAt         time.Time
}

func (l Line) Validate() error {
	if l.LeagueID <= 0 {
		return fmt.Errorf("player line league id must be greater than zero")
	}
	if l.Season <= 0 || l.Week <= 0 {
		return fmt.Errorf("player line season and week must be greater than zero")
	}
	if l.TeamID <= 0 {
		return fmt.Errorf("player line team id must be greater than zero")
	}
	if l.PlayerID <= 0 {
		return fmt.Errorf("player line player id must be greater than zero")
	}

	return nil
}
