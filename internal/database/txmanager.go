// Package database provides the single-writer/shared-reader lock that
// guards concurrent access to one open database file, replacing the SQL
// transaction manager this package started life as: a .pdbf file has no
// transactions, only a region of bytes that one writer at a time may
// re-save while any number of readers pre_open/search/list concurrently.
package database

import (
	"context"
	"sync"
	"time"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// LockManager hands out a per-path lock so two opens of the same file path
// serialize correctly while independent files never contend with each
// other. WithReadLock/WithWriteLock wrap file-level lock boundaries around
// a callback, so callers never touch a sync.RWMutex directly.
type LockManager struct {
	mu      sync.Mutex
	locks   map[string]*sync.RWMutex
	Timeout time.Duration
}

// NewLockManager builds a LockManager. A zero Timeout means Acquire never
// gives up waiting.
func NewLockManager(timeout time.Duration) *LockManager {
	return &LockManager{locks: make(map[string]*sync.RWMutex), Timeout: timeout}
}

func (m *LockManager) lockFor(path string) *sync.RWMutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[path]
	if !ok {
		l = &sync.RWMutex{}
		m.locks[path] = l
	}
	return l
}

// WithReadLock runs fn while holding path's shared lock: pre_open, search,
// and every other read-only facade call takes this.
func (m *LockManager) WithReadLock(ctx context.Context, path string, fn func(ctx context.Context) error) error {
	lock := m.lockFor(path)
	if err := m.acquire(ctx, lock.TryRLock); err != nil {
		return err
	}
	defer lock.RUnlock()
	return fn(ctx)
}

// WithWriteLock runs fn while holding path's exclusive lock: save,
// rotate-salt, and every mutating facade call takes this.
func (m *LockManager) WithWriteLock(ctx context.Context, path string, fn func(ctx context.Context) error) error {
	lock := m.lockFor(path)
	if err := m.acquire(ctx, lock.TryLock); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn(ctx)
}

// acquire polls try until it succeeds, the context is cancelled, or
// m.Timeout elapses since the call began.
func (m *LockManager) acquire(ctx context.Context, try func() bool) error {
	if try() {
		return nil
	}

	var deadline <-chan time.Time
	if m.Timeout > 0 {
		timer := time.NewTimer(m.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return pmanerrors.Wrap(ctx.Err(), "database: lock wait cancelled")
		case <-deadline:
			return pmanerrors.Wrap(pmanerrors.ErrUnsupported, "database: timed out waiting for file lock")
		case <-ticker.C:
			if try() {
				return nil
			}
		}
	}
}
