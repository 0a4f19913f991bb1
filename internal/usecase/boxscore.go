package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ffdata/league-sync/internal/domain/matchup"
	"github.com/ffdata/league-sync/internal/domain/player"
	"github.com/ffdata/league-sync/internal/domain/playerline"
	"github.com/ffdata/league-sync/internal/domain/team"
)

// WeekSnapshot is the fully joined, write-ready view of one league week.
type WeekSnapshot struct {
	LeagueID int64
	Season   int
	Week     int

	Teams    []team.Team
	Players  []player.Player
	Matchups []matchup.Matchup
	Lines    []playerline.Line
}

// BuildWeekSnapshot joins the upstream bundle into domain rows. Matchups,
// rosters and members arrive as three disjoint payloads keyed by team and
// member ids; this is where they meet. Missing joins degrade instead of
// failing: a team with no member record keeps an empty owner, a matchup
// referencing a team the roster view never mentioned gets a placeholder
// team row.
func BuildWeekSnapshot(bundle ExternalWeekBundle) WeekSnapshot {
	snapshot := WeekSnapshot{
		LeagueID: bundle.LeagueID,
		Season:   bundle.Season,
		Week:     bundle.Week,
	}

	memberNames := make(map[string]string, len(bundle.Members))
	for _, member := range bundle.Members {
		memberNames[member.ID] = memberDisplayName(member)
	}

	seenPlayers := make(map[int64]struct{})
	for _, raw := range bundle.Teams {
		snapshot.Teams = append(snapshot.Teams, team.Team{
			LeagueID:  bundle.LeagueID,
			Season:    bundle.Season,
			TeamID:    raw.TeamID,
			Name:      teamDisplayName(raw),
			Abbrev:    strings.TrimSpace(raw.Abbrev),
			LogoURL:   strings.TrimSpace(raw.LogoURL),
			OwnerName: memberNames[raw.PrimaryOwnerID],
		})

		for _, entry := range raw.Roster {
			if entry.PlayerID == 0 {
				continue
			}
			if _, ok := seenPlayers[entry.PlayerID]; !ok {
				seenPlayers[entry.PlayerID] = struct{}{}
				snapshot.Players = append(snapshot.Players, player.Player{
					PlayerID:          entry.PlayerID,
					FullName:          playerDisplayName(entry),
					DefaultPositionID: entry.DefaultPositionID,
				})
			}

			snapshot.Lines = append(snapshot.Lines, playerline.Line{
				LeagueID:          bundle.LeagueID,
				Season:            bundle.Season,
				Week:              bundle.Week,
				TeamID:            raw.TeamID,
				PlayerID:          entry.PlayerID,
				LineupSlotID:      entry.LineupSlotID,
				IsStarter:         IsStarterSlot(entry.LineupSlotID),
				PointsActual:      CoalesceActual(entry, bundle.Week),
				PointsProjected:   CoalesceProjected(entry, bundle.Week),
				DefaultPositionID: entry.DefaultPositionID,
			})
		}
	}

	for _, raw := range bundle.Matchups {
		snapshot.Matchups = append(snapshot.Matchups, matchup.Matchup{
			LeagueID:   bundle.LeagueID,
			Season:     bundle.Season,
			Week:       bundle.Week,
			MatchupID:  raw.MatchupID,
			HomeTeamID: raw.HomeTeamID,
			AwayTeamID: raw.AwayTeamID,
			Winner:     matchup.NormalizeWinner(raw.Winner),
		})
	}

	// Every matchup side must resolve to a team row after the sync, even when
	// the roster view never mentioned it.
	snapshot.Teams = append(snapshot.Teams, placeholderTeams(bundle, snapshot.Teams)...)

	sort.SliceStable(snapshot.Players, func(i, j int) bool {
		return snapshot.Players[i].PlayerID < snapshot.Players[j].PlayerID
	})

	return snapshot
}

func placeholderTeams(bundle ExternalWeekBundle, known []team.Team) []team.Team {
	seen := make(map[int]struct{}, len(known))
	for _, item := range known {
		seen[item.TeamID] = struct{}{}
	}

	var missing []int
	for _, raw := range bundle.Matchups {
		for _, teamID := range []int{raw.HomeTeamID, raw.AwayTeamID} {
			if teamID == 0 {
				continue
			}
			if _, ok := seen[teamID]; ok {
				continue
			}
			seen[teamID] = struct{}{}
			missing = append(missing, teamID)
		}
	}
	sort.Ints(missing)

	out := make([]team.Team, 0, len(missing))
	for _, teamID := range missing {
		out = append(out, team.Team{
			LeagueID: bundle.LeagueID,
			Season:   bundle.Season,
			TeamID:   teamID,
			Name:     placeholderTeamName(teamID),
		})
	}
	return out
}

func teamDisplayName(raw ExternalTeam) string {
	name := strings.TrimSpace(raw.Name)
	if name != "" {
		return name
	}
	return placeholderTeamName(raw.TeamID)
}

func placeholderTeamName(teamID int) string {
	return "Team " + strconv.Itoa(teamID)
}

func playerDisplayName(entry ExternalRosterEntry) string {
	name := strings.TrimSpace(entry.PlayerName)
	if name != "" {
		return name
	}
	return "Player " + strconv.FormatInt(entry.PlayerID, 10)
}

func memberDisplayName(member ExternalMember) string {
	if name := strings.TrimSpace(member.DisplayName); name != "" {
		return name
	}
	full := strings.TrimSpace(strings.TrimSpace(member.FirstName) + " " + strings.TrimSpace(member.LastName))
	return full
}
