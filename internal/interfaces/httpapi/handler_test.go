package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/ffdata/league-sync/internal/infrastructure/repository/memory"
	"github.com/ffdata/league-sync/internal/platform/logging"
	"github.com/ffdata/league-sync/internal/usecase"
)

const testJobToken = "job-token-123"

type fixedProvider struct {
	week int
}

func (p fixedProvider) CurrentWeek(context.Context) (int, error) {
	return p.week, nil
}

func (p fixedProvider) FetchWeek(_ context.Context, week int) (usecase.ExternalWeekBundle, error) {
	return usecase.ExternalWeekBundle{
		LeagueID: 730584,
		Season:   2025,
		Week:     week,
		Teams: []usecase.ExternalTeam{
			{
				TeamID: 1,
				Name:   "The Juggernauts",
				Roster: []usecase.ExternalRosterEntry{
					{PlayerID: 100, PlayerName: "QB One", LineupSlotID: 0, PrecomputedActual: 21.5},
				},
			},
		},
		Matchups: []usecase.ExternalMatchup{
			{MatchupID: 1, HomeTeamID: 1, AwayTeamID: 2, Winner: "HOME"},
		},
	}, nil
}

func newTestRouter(t *testing.T, token string) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	ingestion := usecase.NewIngestionService(
		memory.NewPlayerRepository(),
		memory.NewTeamRepository(),
		memory.NewMatchupRepository(),
		memory.NewPlayerLineRepository(),
		memory.NewTeamTotalsRepository(),
		memory.NewRawDataRepository(),
		logger,
	)
	syncSvc := usecase.NewSyncService(
		usecase.SyncConfig{Season: 2025, TotalWeeks: 2, BackfillWorkers: 2, BackfillRate: 1000},
		fixedProvider{week: 5},
		ingestion,
		logger,
	)
	return NewRouter(NewHandler(syncSvc, logger), logger, token)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()

	var envelope responseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
	return envelope
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != apiVersion {
		t.Fatalf("apiVersion = %q", envelope.APIVersion)
	}
}

func TestRouter_JobRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	cases := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong token", "not-the-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-week", nil)
			if tc.token != "" {
				req.Header.Set("X-Internal-Job-Token", tc.token)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			envelope := decodeEnvelope(t, rec)
			if envelope.Error == nil || envelope.Error.Status != "UNAUTHENTICATED" {
				t.Fatalf("unexpected error body: %+v", envelope.Error)
			}
		})
	}
}

func TestRouter_UnconfiguredTokenFailsClosed(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-week", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no token is configured", rec.Code)
	}
}

func TestRunSyncWeekJob(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-week", strings.NewReader(`{"week":5}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		APIVersion string             `json:"apiVersion"`
		Data       usecase.SyncResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Data.Success {
		t.Fatalf("sync did not succeed: %+v", payload.Data)
	}
	if payload.Data.Week != 5 || payload.Data.Teams != 2 {
		t.Fatalf("unexpected result: %+v", payload.Data)
	}
}

func TestRunSyncWeekJob_EmptyBodyResolvesCurrentWeek(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-week", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data usecase.SyncResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Week != 5 {
		t.Fatalf("week = %d, want the provider's current week", payload.Data.Week)
	}
}

func TestRunSyncWeekJob_RejectsInvalidBody(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	for _, body := range []string{`{"week":99}`, `{"week":-1}`, `{not json`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-week", strings.NewReader(body))
		req.Header.Set("X-Internal-Job-Token", testJobToken)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope.Error == nil || envelope.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("body %q: unexpected error body: %+v", body, envelope.Error)
		}
	}
}

func TestRunBackfillSeasonJob(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/backfill-season", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data usecase.BackfillResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.TotalWeeks != 2 || payload.Data.SucceededCount != 2 {
		t.Fatalf("unexpected backfill result: %+v", payload.Data)
	}
}

func TestRunReingestRecentJob(t *testing.T) {
	router := newTestRouter(t, testJobToken)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reingest-recent", strings.NewReader(`{"depth":2}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data usecase.BackfillResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.TotalWeeks != 2 {
		t.Fatalf("reingest should cover weeks 4 and 5: %+v", payload.Data)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest},
		{errUnauthorized, http.StatusUnauthorized},
		{usecase.ErrConfiguration, http.StatusBadGateway},
		{usecase.ErrTransport, http.StatusServiceUnavailable},
		{usecase.ErrEmptyUpstream, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := mapError(tc.err); got.HTTPStatus != tc.status {
			t.Fatalf("mapError(%v) = %d, want %d", tc.err, got.HTTPStatus, tc.status)
		}
	}
}
