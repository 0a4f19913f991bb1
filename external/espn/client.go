package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/ffdata/league-sync/internal/domain/rawdata"
	"github.com/ffdata/league-sync/internal/platform/logging"
	"github.com/ffdata/league-sync/internal/platform/resilience"
	"github.com/ffdata/league-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

	viewMatchupScore = "mMatchupScore"
	viewRoster       = "mRoster"
	viewSettings     = "mSettings"
	viewTeam         = "mTeam"

	rawPayloadSource = "espn"
)

var espnS2ParamRegex = regexp.MustCompile(`espn_s2=[^&;\s"']+`)
var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	LeagueID       int64
	Season         int
	SWID           string
	ESPNS2         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads one league's weekly views from the fantasy API. Private
// leagues authenticate with the SWID and espn_s2 cookies; both are scrubbed
// from every error and log line.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	leagueID       int64
	season         int
	swid           string
	espnS2         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		leagueID:       cfg.LeagueID,
		season:         cfg.Season,
		swid:           strings.TrimSpace(cfg.SWID),
		espnS2:         strings.TrimSpace(cfg.ESPNS2),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// CurrentWeek resolves the league's in-progress matchup period from the
// settings view.
func (c *Client) CurrentWeek(ctx context.Context) (int, error) {
	var envelope statusEnvelope
	if _, err := c.doJSON(ctx, c.leaguePath(), map[string]string{"view": viewSettings}, &envelope); err != nil {
		return 0, fmt.Errorf("fetch league status: %w", err)
	}

	week := envelope.Status.CurrentMatchupPeriod
	if week <= 0 {
		week = envelope.Status.LatestScoringPeriod
	}
	if week <= 0 {
		return 0, fmt.Errorf("%w: league status carries no current period", usecase.ErrTransport)
	}
	return week, nil
}

// FetchWeek pulls the matchup, roster and member views for one week
// concurrently and joins them into a single bundle. A failure on any view
// fails the whole call; there is no partial bundle.
func (c *Client) FetchWeek(ctx context.Context, week int) (usecase.ExternalWeekBundle, error) {
	if week <= 0 {
		return usecase.ExternalWeekBundle{}, fmt.Errorf("%w: week must be greater than zero", usecase.ErrInvalidInput)
	}

	weekParam := strconv.Itoa(week)
	var (
		schedule    scheduleEnvelope
		rosters     rosterEnvelope
		members     membersEnvelope
		rawPayloads [3]rawdata.Payload
	)

	fetches := pool.New().WithContext(ctx).WithCancelOnError()
	fetches.Go(func(ctx context.Context) error {
		query := map[string]string{"view": viewMatchupScore, "scoringPeriodId": weekParam}
		raw, err := c.doJSON(ctx, c.leaguePath(), query, &schedule)
		if err != nil {
			return fmt.Errorf("fetch matchup view: %w", err)
		}
		rawPayloads[0] = c.buildAPIPayload("matchups", query, week, raw)
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		query := map[string]string{"view": viewRoster, "scoringPeriodId": weekParam}
		raw, err := c.doJSON(ctx, c.leaguePath(), query, &rosters)
		if err != nil {
			return fmt.Errorf("fetch roster view: %w", err)
		}
		rawPayloads[1] = c.buildAPIPayload("rosters", query, week, raw)
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		query := map[string]string{"view": viewTeam}
		raw, err := c.doJSON(ctx, c.leaguePath(), query, &members)
		if err != nil {
			return fmt.Errorf("fetch members view: %w", err)
		}
		rawPayloads[2] = c.buildAPIPayload("members", query, week, raw)
		return nil
	})
	if err := fetches.Wait(); err != nil {
		return usecase.ExternalWeekBundle{}, err
	}

	bundle := usecase.ExternalWeekBundle{
		LeagueID:    c.leagueID,
		Season:      c.season,
		Week:        week,
		Matchups:    mapSchedule(schedule.Schedule, week),
		Teams:       mapTeams(rosters.Teams),
		Members:     mapMembers(members.Members),
		RawPayloads: rawPayloads[:],
	}
	return bundle, nil
}

// mapSchedule keeps only the requested week. The bulk endpoint returns the
// whole season's schedule regardless of the scoringPeriodId parameter.
func mapSchedule(items []scheduleItem, week int) []usecase.ExternalMatchup {
	out := make([]usecase.ExternalMatchup, 0, len(items))
	for _, item := range items {
		if item.MatchupPeriodID != week {
			continue
		}
		row := usecase.ExternalMatchup{
			MatchupID: item.ID,
			Winner:    item.Winner,
		}
		if item.Home != nil {
			row.HomeTeamID = item.Home.TeamID
		}
		if item.Away != nil {
			row.AwayTeamID = item.Away.TeamID
		}
		out = append(out, row)
	}
	return out
}

func mapTeams(items []rosterTeam) []usecase.ExternalTeam {
	out := make([]usecase.ExternalTeam, 0, len(items))
	for _, item := range items {
		row := usecase.ExternalTeam{
			TeamID:         item.ID,
			Name:           teamName(item),
			Abbrev:         strings.TrimSpace(item.Abbrev),
			LogoURL:        strings.TrimSpace(item.Logo),
			PrimaryOwnerID: primaryOwner(item),
			Roster:         make([]usecase.ExternalRosterEntry, 0, len(item.Roster.Entries)),
		}
		for _, entry := range item.Roster.Entries {
			mapped, ok := mapRosterEntry(entry)
			if !ok {
				continue
			}
			row.Roster = append(row.Roster, mapped)
		}
		out = append(out, row)
	}
	return out
}

// mapRosterEntry normalizes the dual entry shape. The direct player object
// and the pool-entry wrapper never disagree when both are present; the pool
// entry wins because it carries the precomputed totals.
func mapRosterEntry(entry rosterEntry) (usecase.ExternalRosterEntry, bool) {
	detail := entry.Player
	var precomputedActual, precomputedProjected float64
	if entry.PlayerPoolEntry != nil {
		if entry.PlayerPoolEntry.Player != nil {
			detail = entry.PlayerPoolEntry.Player
		}
		precomputedActual = entry.PlayerPoolEntry.AppliedStatTotal
		precomputedProjected = entry.PlayerPoolEntry.AppliedProjectedStatTotal
	}
	if detail == nil || detail.ID == 0 {
		return usecase.ExternalRosterEntry{}, false
	}

	mapped := usecase.ExternalRosterEntry{
		PlayerID:             detail.ID,
		PlayerName:           strings.TrimSpace(detail.FullName),
		DefaultPositionID:    detail.DefaultPositionID,
		LineupSlotID:         entry.LineupSlotID,
		PrecomputedActual:    precomputedActual,
		PrecomputedProjected: precomputedProjected,
		Stats:                make([]usecase.ExternalStatLine, 0, len(detail.Stats)),
	}
	for _, line := range detail.Stats {
		mapped.Stats = append(mapped.Stats, usecase.ExternalStatLine{
			ScoringPeriodID: line.ScoringPeriodID,
			StatSplitTypeID: line.StatSplitTypeID,
			StatSourceID:    line.StatSourceID,
			AppliedTotal:    line.AppliedTotal,
		})
	}
	return mapped, true
}

func mapMembers(items []member) []usecase.ExternalMember {
	out := make([]usecase.ExternalMember, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalMember{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			FirstName:   item.FirstName,
			LastName:    item.LastName,
		})
	}
	return out
}

func teamName(item rosterTeam) string {
	if name := strings.TrimSpace(item.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(item.Location) + " " + strings.TrimSpace(item.Nickname))
}

func primaryOwner(item rosterTeam) string {
	if owner := strings.TrimSpace(item.PrimaryOwner); owner != "" {
		return owner
	}
	if len(item.Owners) > 0 {
		return strings.TrimSpace(item.Owners[0])
	}
	return ""
}

func (c *Client) leaguePath() string {
	return fmt.Sprintf("/seasons/%d/segments/0/leagues/%d", c.season, c.leagueID)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: fantasy API is temporarily unavailable", usecase.ErrTransport)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, reqErr := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if reqErr != nil {
		return nil, reqErr
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode league payload: %v", usecase.ErrTransport, err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.swid != "" {
			req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
		}
		if c.espnS2 != "" {
			req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errESPNTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				// Bad or expired cookies, or a league the account cannot see.
				return nil, fmt.Errorf("%w: upstream status=%d", usecase.ErrConfiguration, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("%w: upstream status=%d body=%s", usecase.ErrTransport, resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: league request failed", usecase.ErrTransport)
	}
	if crerr.Is(lastErr, errESPNTransient) {
		lastErr = crerr.Mark(fmt.Errorf("%w: %s", usecase.ErrTransport, c.sanitize(lastErr.Error())), errESPNTransient)
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", redactLeagueURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) buildAPIPayload(entityType string, query map[string]string, week int, raw []byte) rawdata.Payload {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	entityKey := c.leaguePath()
	if encoded := values.Encode(); encoded != "" {
		entityKey += "?" + encoded
	}
	return rawdata.Payload{
		Source:      rawPayloadSource,
		EntityType:  entityType,
		EntityKey:   entityKey,
		LeagueID:    c.leagueID,
		Season:      c.season,
		Week:        week,
		PayloadJSON: string(raw),
	}
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.espnS2 != "" {
		value = strings.ReplaceAll(value, c.espnS2, "REDACTED")
	}
	if c.swid != "" {
		value = strings.ReplaceAll(value, c.swid, "REDACTED")
	}
	return espnS2ParamRegex.ReplaceAllString(value, "espn_s2=REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactLeagueURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("espn_s2") {
		query.Set("espn_s2", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
