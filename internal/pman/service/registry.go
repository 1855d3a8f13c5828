package service

import (
	"sync"

	pmanerrors "github.com/go-pman/pman/internal/errors"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
)

// Registry is the process-wide handle table: a caller refers to an open
// database by a stable uint64 id rather than holding a pointer across
// whatever boundary embeds this library (a CLI process, a foreign-language
// binding). Uses an explicit mutex plus map because assigning the next id
// atomically needs more than sync.Map's Load/Store/Delete gives for free.
type Registry struct {
	mu     sync.RWMutex
	nextID uint64
	open   map[uint64]*pmandomain.Database
}

// NewRegistry builds an empty registry. app.Container builds its registry
// this way, as do tests that want isolation from other tests.
func NewRegistry() *Registry {
	return &Registry{nextID: 1, open: make(map[uint64]*pmandomain.Database)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level shared registry. cmd/pman does
// not use it.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register assigns db a fresh id, stores it, and returns the id.
func (r *Registry) Register(db *pmandomain.Database) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	db.ID = id
	r.open[id] = db
	return id
}

// Get returns the database registered under id.
func (r *Registry) Get(id uint64) (*pmandomain.Database, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	db, ok := r.open[id]
	if !ok {
		return nil, pmanerrors.Wrapf(pmanerrors.ErrNotFound, "database %d", id)
	}
	return db, nil
}

// Remove drops id from the registry, typically once its database has been
// saved and closed.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.open, id)
}

// Count reports how many databases are currently registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.open)
}
