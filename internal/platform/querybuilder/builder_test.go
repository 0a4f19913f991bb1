package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("team_id", "name").
		From("teams").
		Where(Eq("league_id", int64(42)), Eq("season", 2025), IsNull("deleted_at")).
		OrderBy("team_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT team_id, name FROM teams WHERE league_id = $1 AND season = $2 AND deleted_at IS NULL ORDER BY team_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(42) || args[1] != 2025 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRowWithSuffix(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("player_id", "full_name").
		Values(int64(1), "Player One").
		Values(int64(2), "Player Two").
		Suffix("ON CONFLICT (player_id) WHERE deleted_at IS NULL DO UPDATE SET full_name = EXCLUDED.full_name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (player_id, full_name) VALUES ($1, $2), ($3, $4) " +
		"ON CONFLICT (player_id) WHERE deleted_at IS NULL DO UPDATE SET full_name = EXCLUDED.full_name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID     int64  `db:"id"`
		Name   string `db:"name"`
		Ignore string `db:"-"`
	}

	query, args, err := InsertModels("teams", []row{
		{ID: 1, Name: "Alpha"},
		{ID: 2, Name: "Bravo"},
	}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[1] != "Alpha" || args[3] != "Bravo" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
