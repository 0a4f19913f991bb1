package team

import "fmt"

// Team is one fantasy franchise inside a league season. The natural key is
// (LeagueID, Season, TeamID); rows are upserted on every sync and never deleted.
type Team struct {
	LeagueID  int64
	Season    int
	TeamID    int
	Name      string
	Abbrev    string
	LogoURL   string
	OwnerName string
}

func (t Team) Validate() error {
	if t.LeagueID <= 0 {
		return fmt.Errorf("team league id must be greater than zero")
	}
	if t.Season <= 0 {
		return fmt.Errorf("team season must be greater than zero")
	}
	if t.TeamID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
