package database

import (
	"sync"
)

type cacheKey struct {
	kind EntityKind
	name string
}

// CachedRepository wraps Repository with an in-process entity id cache.
// A name maps to the first id resolved for it during this process.
type CachedRepository struct {
	*Repository

	entities   map[cacheKey]int64
	entitiesMu sync.RWMutex
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo *Repository) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		entities:   make(map[cacheKey]int64),
	}
}

// FindEntityID looks the name up in the cache before asking the store
func (r *CachedRepository) FindEntityID(kind EntityKind, name string) (int64, bool, error) {
	key := cacheKey{kind: kind, name: name}

	r.entitiesMu.RLock()
	if id, ok := r.entities[key]; ok {
		r.entitiesMu.RUnlock()
		return id, true, nil
	}
	r.entitiesMu.RUnlock()

	id, found, err := r.Repository.FindEntityID(kind, name)
	if err != nil || !found {
		return id, found, err
	}

	r.remember(key, id)
	return id, true, nil
}

// CreateEntity inserts the entity and caches its new id
func (r *CachedRepository) CreateEntity(kind EntityKind, name string) (int64, error) {
	id, err := r.Repository.CreateEntity(kind, name)
	if err != nil {
		return 0, err
	}

	r.remember(cacheKey{kind: kind, name: name}, id)
	return id, nil
}

func (r *CachedRepository) remember(key cacheKey, id int64) {
	r.entitiesMu.Lock()
	if _, ok := r.entities[key]; !ok {
		r.entities[key] = id
	}
	r.entitiesMu.Unlock()
}

// ClearCache clears the entity cache
func (r *CachedRepository) ClearCache() {
	r.entitiesMu.Lock()
	r.entities = make(map[cacheKey]int64)
	r.entitiesMu.Unlock()
}

// GetCacheStats returns the number of cached names per entity table
func (r *CachedRepository) GetCacheStats() map[string]int {
	r.entitiesMu.RLock()
	defer r.entitiesMu.RUnlock()

	stats := make(map[string]int, len(EntityKinds))
	for _, kind := range EntityKinds {
		stats[kind.Table()] = 0
	}
	for key := range r.entities {
		stats[key.kind.Table()]++
	}
	return stats
}
