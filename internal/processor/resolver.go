package processor

import (
	"strings"

	"github.com/palemoky/songbook-catalog/internal/classifier"
	"github.com/palemoky/songbook-catalog/internal/database"
)

// Resolver maps candidate names to entity ids, creating rows on first sight.
// Lookup then insert is not atomic: concurrent writers may create duplicates.
type Resolver struct {
	repo database.RepositoryInterface
}

// NewResolver creates a resolver over a store
func NewResolver(repo database.RepositoryInterface) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the id for name, or ok=false when the name is absent.
// Absent names (empty or "none") never touch the store.
func (r *Resolver) Resolve(kind database.EntityKind, name string) (id int64, ok bool, err error) {
	name = strings.TrimSpace(name)
	if classifier.IsAbsent(name) {
		return 0, false, nil
	}

	id, found, err := r.repo.FindEntityID(kind, name)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, true, nil
	}

	id, err = r.repo.CreateEntity(kind, name)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
