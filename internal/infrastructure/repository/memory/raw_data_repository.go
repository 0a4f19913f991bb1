package memory

import (
	"context"
	"sync"

	"github.com/ffdata/league-sync/internal/domain/rawdata"
)

type rawDataKey struct {
	source     string
	entityType string
	entityKey  string
}

type RawDataRepository struct {
	mu       sync.RWMutex
	payloads map[rawDataKey]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{payloads: make(map[rawDataKey]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := rawDataKey{source: item.Source, entityType: item.EntityType, entityKey: item.EntityKey}
		r.payloads[key] = item
	}
	return nil
}

func (r *RawDataRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payloads)
}
