package usecase

import (
	"context"

	"github.com/ffdata/league-sync/internal/domain/rawdata"
)

// WeekDataProvider is the upstream boundary for one league week. FetchWeek
// returns an already-normalized bundle scoped to a single week; CurrentWeek
// resolves the league's in-progress matchup period.
type WeekDataProvider interface {
	FetchWeek(ctx context.Context, week int) (ExternalWeekBundle, error)
	CurrentWeek(ctx context.Context) (int, error)
}

// ExternalWeekBundle is everything the upstream exposes for one week of one
// league: schedule entries filtered to the week, teams with rosters, and the
// league members for owner attribution.
type ExternalWeekBundle struct {
	LeagueID    int64
	Season      int
	Week        int
	Matchups    []ExternalMatchup
	Teams       []ExternalTeam
	Members     []ExternalMember
	RawPayloads []rawdata.Payload
}

type ExternalMatchup struct {
	MatchupID  int
	HomeTeamID int
	AwayTeamID int
	Winner     string
}

type ExternalTeam struct {
	TeamID         int
	Name           string
	Abbrev         string
	LogoURL        string
	PrimaryOwnerID string
	Roster         []ExternalRosterEntry
}

type ExternalMember struct {
	ID          string
	DisplayName string
	FirstName   string
	LastName    string
}

// ExternalRosterEntry carries one rostered player with both the precomputed
// weekly total and the raw stat lines it can be recovered from.
type ExternalRosterEntry struct {
	PlayerID             int64
	PlayerName           string
	DefaultPositionID    int
	LineupSlotID         int
	PrecomputedActual    float64
	PrecomputedProjected float64
	Stats                []ExternalStatLine
}

type ExternalStatLine struct {
	ScoringPeriodID int
	StatSplitTypeID int
	StatSourceID    int
	AppliedTotal    float64
}
