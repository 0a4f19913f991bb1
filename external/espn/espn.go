package espn

// Wire shapes for the fantasy API's league views. Only the fields the sync
// reads are declared; the payloads carry far more.

type statusEnvelope struct {
	Status leagueStatus `json:"status"`
}

type leagueStatus struct {
	CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
	LatestScoringPeriod  int `json:"latestScoringPeriod"`
	FinalScoringPeriod   int `json:"finalScoringPeriod"`
}

type membersEnvelope struct {
	Members []member `json:"members"`
}

type member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type scheduleEnvelope struct {
	Schedule []scheduleItem `json:"schedule"`
}

type scheduleItem struct {
	ID              int            `json:"id"`
	MatchupPeriodID int            `json:"matchupPeriodId"`
	Winner          string         `json:"winner"`
	Home            *scheduleEntry `json:"home"`
	Away            *scheduleEntry `json:"away"`
}

type scheduleEntry struct {
	TeamID int `json:"teamId"`
}

type rosterEnvelope struct {
	Teams []rosterTeam `json:"teams"`
}

type rosterTeam struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Nickname     string   `json:"nickname"`
	Abbrev       string   `json:"abbrev"`
	Logo         string   `json:"logo"`
	PrimaryOwner string   `json:"primaryOwner"`
	Owners       []string `json:"owners"`
	Roster       roster   `json:"roster"`
}

type roster struct {
	Entries []rosterEntry `json:"entries"`
}

// rosterEntry arrives in two shapes: the player object either sits directly
// on the entry or is wrapped in playerPoolEntry. The pool entry additionally
// carries the precomputed weekly totals.
type rosterEntry struct {
	LineupSlotID    int              `json:"lineupSlotId"`
	Player          *playerDetail    `json:"player"`
	PlayerPoolEntry *playerPoolEntry `json:"playerPoolEntry"`
}

type playerPoolEntry struct {
	AppliedStatTotal          float64       `json:"appliedStatTotal"`
	AppliedProjectedStatTotal float64       `json:"appliedProjectedStatTotal"`
	Player                    *playerDetail `json:"player"`
}

type playerDetail struct {
	ID                int64      `json:"id"`
	FullName          string     `json:"fullName"`
	DefaultPositionID int        `json:"defaultPositionId"`
	Stats             []statLine `json:"stats"`
}

type statLine struct {
	ScoringPeriodID int     `json:"scoringPeriodId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	StatSourceID    int     `json:"statSourceId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}
