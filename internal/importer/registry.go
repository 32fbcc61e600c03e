package importer

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps legacy entity ids to ledger ids for one import run.
// Entries are only ever added. Stage ordering, not the registry, guarantees
// that an id is written before a later stage reads it; the lock only keeps
// concurrent writers within a stage memory-safe.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]string)}
}

// Allocate records a fresh ledger id for legacyID and returns it.
func (r *Registry) Allocate(legacyID string) string {
	id := uuid.NewString()
	r.Set(legacyID, id)
	return id
}

// Set records the ledger id produced for legacyID.
func (r *Registry) Set(legacyID, targetID string) {
	r.mu.Lock()
	r.ids[legacyID] = targetID
	r.mu.Unlock()
}

// Get returns the ledger id for legacyID. A missing id is a normal outcome:
// tombstoned and out-of-scope entities are never registered.
func (r *Registry) Get(legacyID string) (string, bool) {
	if legacyID == "" {
		return "", false
	}
	r.mu.RLock()
	id, ok := r.ids[legacyID]
	r.mu.RUnlock()
	return id, ok
}

// Lookup is Get as a nullable reference.
func (r *Registry) Lookup(legacyID string) *string {
	if id, ok := r.Get(legacyID); ok {
		return &id
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
