package matchup

import "fmt"

// Winner values as reported upstream. Empty means the matchup is undecided.
const (
	WinnerHome = "HOME"
	WinnerAway = "AWAY"
	WinnerTie  = "TIE"
)

// Matchup is one head-to-head pairing for a week, keyed by
// (LeagueID, Season, Week, MatchupID).
type Matchup struct {
	LeagueID   int64
	Season     int
	Week       int
	MatchupID  int
	HomeTeamID int
	AwayTeamID int
	Winner     string
}

func (m Matchup) Validate() error {
	if m.LeagueID <= 0 {
		return fmt.Errorf("matchup league id must be greater than zero")
	}
	if m.Season <= 0 || m.Week <= 0 {
		return fmt.Errorf("matchup season and week must be greater than zero")
	}
	if m.MatchupID <= 0 {
		return fmt.Errorf("matchup id must be greater than zero")
	}

	return nil
}

// NormalizeWinner collapses upstream winner strings to the known set.
func NormalizeWinner(raw string) string {
	switch raw {
	case WinnerHome, WinnerAway, WinnerTie:
		return raw
	default:
		return ""
	}
}
