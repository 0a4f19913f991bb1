package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ffdata/league-sync/internal/platform/logging"
	"github.com/ffdata/league-sync/internal/platform/resilience"
	"github.com/ffdata/league-sync/internal/usecase"
)

const (
	testSWID = "{ABCD-1234}"
	testS2   = "AEBsecretvalue%2B"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		LeagueID:   730584,
		Season:     2025,
		SWID:       testSWID,
		ESPNS2:     testS2,
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
	return client, server
}

func leagueViewMux(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if swid, err := r.Cookie("SWID"); err != nil || swid.Value != testSWID {
			t.Errorf("missing or wrong SWID cookie")
		}
		if s2, err := r.Cookie("espn_s2"); err != nil || s2.Value != testS2 {
			t.Errorf("missing or wrong espn_s2 cookie")
		}

		switch r.URL.Query().Get("view") {
		case viewSettings:
			_, _ = w.Write([]byte(`{"status":{"currentMatchupPeriod":5,"latestScoringPeriod":6,"finalScoringPeriod":18}}`))
		case viewMatchupScore:
			_, _ = w.Write([]byte(`{"schedule":[
				{"id":40,"matchupPeriodId":4,"winner":"AWAY","home":{"teamId":1},"away":{"teamId":2}},
				{"id":51,"matchupPeriodId":5,"winner":"HOME","home":{"teamId":1},"away":{"teamId":2}},
				{"id":52,"matchupPeriodId":5,"winner":"UNDECIDED","home":{"teamId":3},"away":{"teamId":4}}
			]}`))
		case viewRoster:
			_, _ = w.Write([]byte(`{"teams":[
				{"id":1,"name":"The Juggernauts","abbrev":"JUG","primaryOwner":"{OWNER-1}","roster":{"entries":[
					{"lineupSlotId":0,"playerPoolEntry":{"appliedStatTotal":21.5,"appliedProjectedStatTotal":18.25,"player":{"id":100,"fullName":"QB One","defaultPositionId":1}}},
					{"lineupSlotId":20,"player":{"id":101,"fullName":"Bench Guy","defaultPositionId":2,
						"stats":[{"scoringPeriodId":5,"statSplitTypeId":1,"statSourceId":0,"appliedTotal":9.9}]}}
				]}},
				{"id":2,"location":"Dana","nickname":"Destroyers","owners":["{OWNER-2}"],"roster":{"entries":[
					{"lineupSlotId":2,"playerPoolEntry":{"appliedStatTotal":12.0,"player":{"id":200,"fullName":"RB Two","defaultPositionId":2}}}
				]}}
			]}`))
		case viewTeam:
			_, _ = w.Write([]byte(`{"members":[
				{"id":"{OWNER-1}","displayName":"gridiron_gary"},
				{"id":"{OWNER-2}","firstName":"Dana","lastName":"Reeves"}
			]}`))
		default:
			t.Errorf("unexpected view %q", r.URL.Query().Get("view"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})
}

func TestClient_CurrentWeek(t *testing.T) {
	client, _ := newTestClient(t, leagueViewMux(t), 0)

	week, err := client.CurrentWeek(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, week)
}

func TestClient_CurrentWeek_FallsBackToLatestScoringPeriod(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"currentMatchupPeriod":0,"latestScoringPeriod":9}}`))
	}), 0)

	week, err := client.CurrentWeek(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9, week)
}

func TestClient_FetchWeek_JoinsThreeViews(t *testing.T) {
	client, _ := newTestClient(t, leagueViewMux(t), 0)

	bundle, err := client.FetchWeek(context.Background(), 5)
	require.NoError(t, err)

	require.Equal(t, int64(730584), bundle.LeagueID)
	require.Equal(t, 2025, bundle.Season)
	require.Equal(t, 5, bundle.Week)

	// The schedule endpoint returns the whole season; only week 5 survives.
	require.Len(t, bundle.Matchups, 2)
	require.Equal(t, 51, bundle.Matchups[0].MatchupID)
	require.Equal(t, "HOME", bundle.Matchups[0].Winner)

	require.Len(t, bundle.Teams, 2)
	require.Equal(t, "The Juggernauts", bundle.Teams[0].Name)
	require.Equal(t, "Dana Destroyers", bundle.Teams[1].Name)
	require.Equal(t, "{OWNER-2}", bundle.Teams[1].PrimaryOwnerID)

	// Both roster shapes normalize to the same entry type.
	pooled := bundle.Teams[0].Roster[0]
	require.Equal(t, int64(100), pooled.PlayerID)
	require.Equal(t, 21.5, pooled.PrecomputedActual)
	require.Equal(t, 18.25, pooled.PrecomputedProjected)
	direct := bundle.Teams[0].Roster[1]
	require.Equal(t, int64(101), direct.PlayerID)
	require.Equal(t, float64(0), direct.PrecomputedActual)
	require.Len(t, direct.Stats, 1)

	require.Len(t, bundle.Members, 2)
	require.Len(t, bundle.RawPayloads, 3)
	for _, payload := range bundle.RawPayloads {
		require.Equal(t, "espn", payload.Source)
		require.NotEmpty(t, payload.PayloadJSON)
	}
}

func TestClient_FetchWeek_ProjectedTotalWithoutStatLines(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("view") {
		case viewMatchupScore:
			_, _ = w.Write([]byte(`{"schedule":[]}`))
		case viewRoster:
			_, _ = w.Write([]byte(`{"teams":[
				{"id":1,"roster":{"entries":[
					{"lineupSlotId":0,"playerPoolEntry":{"appliedProjectedStatTotal":14.7,"player":{"id":300,"fullName":"Kicker Three","defaultPositionId":5}}}
				]}}
			]}`))
		case viewTeam:
			_, _ = w.Write([]byte(`{"members":[]}`))
		}
	}), 0)

	bundle, err := client.FetchWeek(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, bundle.Teams, 1)
	require.Len(t, bundle.Teams[0].Roster, 1)
	entry := bundle.Teams[0].Roster[0]
	require.Equal(t, 14.7, entry.PrecomputedProjected)
	require.Equal(t, 14.7, usecase.CoalesceProjected(entry, 3))
}

func TestClient_FetchWeek_RejectsNonPositiveWeek(t *testing.T) {
	client, _ := newTestClient(t, leagueViewMux(t), 0)

	_, err := client.FetchWeek(context.Background(), 0)
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestClient_Unauthorized_IsConfigurationError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}), 2)

	_, err := client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrConfiguration)
	require.Equal(t, int32(1), calls.Load(), "auth failures must not be retried")
}

func TestClient_ServerErrorRetriesThenTransport(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), 1)

	_, err := client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrTransport)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_BadRequestFailsWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), 2)

	_, err := client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrTransport)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_CircuitBreakerShortCircuits(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		LeagueID:   730584,
		Season:     2025,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrTransport)

	_, err = client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrTransport)
	require.Equal(t, int32(1), calls.Load(), "open breaker must not hit upstream")
}

func TestClient_SanitizeScrubsCredentials(t *testing.T) {
	client := NewClient(ClientConfig{
		LeagueID: 1,
		Season:   2025,
		SWID:     testSWID,
		ESPNS2:   testS2,
		Logger:   logging.NewNop(),
	})

	dirty := "Get https://example.com/x?espn_s2=" + testS2 + "&swid=" + testSWID + ": timeout"
	clean := client.sanitize(dirty)
	require.NotContains(t, clean, testS2)
	require.NotContains(t, clean, testSWID)
	require.Contains(t, clean, "espn_s2=REDACTED")
}

func TestRedactLeagueURL(t *testing.T) {
	got := redactLeagueURL("https://example.com/leagues/1?espn_s2=secret&view=mTeam")
	require.NotContains(t, got, "secret")
	require.Contains(t, got, "espn_s2=REDACTED")
}

func TestClient_DecodeFailureIsTransport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}), 0)

	_, err := client.CurrentWeek(context.Background())
	require.ErrorIs(t, err, usecase.ErrTransport)
}
