package rawdata

// Payload is one captured upstream response body, kept for audit and replay
// of corrective re-ingestion. Keyed by (Source, EntityType, EntityKey).
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	LeagueID    int64
	Season      int
	Week        int
	PayloadJSON string
	PayloadHash string
}
