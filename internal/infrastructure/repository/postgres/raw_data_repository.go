package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ffdata/league-sync/internal/domain/rawdata"
	qb "github.com/ffdata/league-sync/internal/platform/querybuilder"
)

type rawDataPayloadInsertModel struct {
	Source      string `db:"source"`
	EntityType  string `db:"entity_type"`
	EntityKey   string `db:"entity_key"`
	LeagueID    int64  `db:"league_id"`
	Season      int    `db:"season"`
	Week        int    `db:"week"`
	Payload     string `db:"payload"`
	PayloadHash string `db:"payload_hash"`
}

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawDataPayloadInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			LeagueID:    item.LeagueID,
			Season:      item.Season,
			Week:        item.Week,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
		}

		query, args, err := qb.InsertModel("raw_data_payloads", insertModel, `ON CONFLICT (source, entity_type, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    ingested_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw payload entity_key=%s: %w", item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}
	return nil
}
