package usecase

import "testing"

func demoBundle() ExternalWeekBundle {
	return ExternalWeekBundle{
		LeagueID: 730584,
		Season:   2025,
		Week:     5,
		Members: []ExternalMember{
			{ID: "{OWNER-1}", DisplayName: "gridiron_gary"},
			{ID: "{OWNER-2}", FirstName: "Dana", LastName: "Reeves"},
		},
		Teams: []ExternalTeam{
			{
				TeamID:         1,
				Name:           "The Juggernauts",
				Abbrev:         "JUG",
				PrimaryOwnerID: "{OWNER-1}",
				Roster: []ExternalRosterEntry{
					{PlayerID: 100, PlayerName: "QB One", LineupSlotID: 0, PrecomputedActual: 21.5},
					{PlayerID: 101, PlayerName: "Bench Guy", LineupSlotID: 20, PrecomputedActual: 9.9},
				},
			},
			{
				TeamID:         2,
				PrimaryOwnerID: "{OWNER-2}",
				Roster: []ExternalRosterEntry{
					{PlayerID: 100, PlayerName: "QB One", LineupSlotID: 0, PrecomputedActual: 21.5},
					{PlayerID: 200, PlayerName: "RB Two", LineupSlotID: 2, PrecomputedActual: 12.0},
				},
			},
		},
		Matchups: []ExternalMatchup{
			{MatchupID: 1, HomeTeamID: 1, AwayTeamID: 2, Winner: "HOME"},
			{MatchupID: 2, HomeTeamID: 3, AwayTeamID: 4, Winner: "UNDECIDED"},
		},
	}
}

func TestBuildWeekSnapshot_JoinsMembersAndDedupesPlayers(t *testing.T) {
	snapshot := BuildWeekSnapshot(demoBundle())

	if len(snapshot.Teams) != 4 {
		t.Fatalf("teams = %d, want 2 rostered plus 2 placeholders", len(snapshot.Teams))
	}
	if snapshot.Teams[0].OwnerName != "gridiron_gary" {
		t.Fatalf("owner name = %q, want display name", snapshot.Teams[0].OwnerName)
	}
	if snapshot.Teams[1].OwnerName != "Dana Reeves" {
		t.Fatalf("owner name = %q, want first+last fallback", snapshot.Teams[1].OwnerName)
	}
	if snapshot.Teams[1].Name != "Team 2" {
		t.Fatalf("team name = %q, want placeholder for unnamed team", snapshot.Teams[1].Name)
	}
	if snapshot.Teams[2].Name != "Team 3" || snapshot.Teams[3].Name != "Team 4" {
		t.Fatalf("matchup-only teams should materialize as placeholders: %+v", snapshot.Teams[2:])
	}

	if len(snapshot.Players) != 3 {
		t.Fatalf("players = %d, want 3 after dedupe (player 100 rostered twice)", len(snapshot.Players))
	}
	for i := 1; i < len(snapshot.Players); i++ {
		if snapshot.Players[i-1].PlayerID >= snapshot.Players[i].PlayerID {
			t.Fatalf("players are not sorted by id: %v then %v", snapshot.Players[i-1].PlayerID, snapshot.Players[i].PlayerID)
		}
	}

	if len(snapshot.Lines) != 4 {
		t.Fatalf("lines = %d, want one per roster entry", len(snapshot.Lines))
	}
	bench := snapshot.Lines[1]
	if bench.PlayerID != 101 || bench.IsStarter {
		t.Fatalf("bench line should not be a starter: %+v", bench)
	}

	if snapshot.Matchups[0].Winner != "HOME" {
		t.Fatalf("winner = %q, want HOME", snapshot.Matchups[0].Winner)
	}
	if snapshot.Matchups[1].Winner != "" {
		t.Fatalf("winner = %q, want empty for undecided matchup", snapshot.Matchups[1].Winner)
	}
}

func TestBuildWeekSnapshot_SkipsZeroPlayerID(t *testing.T) {
	bundle := demoBundle()
	bundle.Teams[0].Roster = append(bundle.Teams[0].Roster, ExternalRosterEntry{PlayerID: 0, PlayerName: "ghost"})

	snapshot := BuildWeekSnapshot(bundle)
	if len(snapshot.Players) != 3 {
		t.Fatalf("players = %d, want zero-id entry dropped", len(snapshot.Players))
	}
	if len(snapshot.Lines) != 4 {
		t.Fatalf("lines = %d, want zero-id entry dropped", len(snapshot.Lines))
	}
}

func TestBuildWeekSnapshot_RowsAlwaysValidate(t *testing.T) {
	bundle := demoBundle()
	bundle.Teams[0].Roster = append(bundle.Teams[0].Roster, ExternalRosterEntry{PlayerID: 999, LineupSlotID: 0})

	snapshot := BuildWeekSnapshot(bundle)

	var unnamed bool
	for _, item := range snapshot.Players {
		if err := item.Validate(); err != nil {
			t.Fatalf("player %d: %v", item.PlayerID, err)
		}
		if item.PlayerID == 999 {
			unnamed = true
			if item.FullName != "Player 999" {
				t.Fatalf("full name = %q, want placeholder for nameless entry", item.FullName)
			}
		}
	}
	if !unnamed {
		t.Fatal("nameless entry missing from snapshot")
	}
	for _, item := range snapshot.Teams {
		if err := item.Validate(); err != nil {
			t.Fatalf("team %d: %v", item.TeamID, err)
		}
	}
	for _, item := range snapshot.Matchups {
		if err := item.Validate(); err != nil {
			t.Fatalf("matchup %d: %v", item.MatchupID, err)
		}
	}
	for _, item := range snapshot.Lines {
		if err := item.Validate(); err != nil {
			t.Fatalf("line player=%d: %v", item.PlayerID, err)
		}
	}
}
