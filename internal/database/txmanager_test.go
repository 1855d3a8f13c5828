package database

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithReadLockAllowsConcurrentReaders(t *testing.T) {
	m := NewLockManager(0)
	ctx := context.Background()

	var active int32
	var maxActive int32
	run := func() error {
		n := atomic.AddInt32(&active, 1)
		if n > atomic.LoadInt32(&maxActive) {
			atomic.StoreInt32(&maxActive, n)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	}

	done := make(chan error, 2)
	go func() { done <- m.WithReadLock(ctx, "db.pdbf", func(context.Context) error { return run() }) }()
	go func() { done <- m.WithReadLock(ctx, "db.pdbf", func(context.Context) error { return run() }) }()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	assert.Equal(t, int32(2), atomic.LoadInt32(&maxActive))
}

func TestWithWriteLockExcludesReaders(t *testing.T) {
	m := NewLockManager(50 * time.Millisecond)
	ctx := context.Background()

	writerHolding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = m.WithWriteLock(ctx, "db.pdbf", func(context.Context) error {
			close(writerHolding)
			<-release
			return nil
		})
	}()
	<-writerHolding

	err := m.WithReadLock(ctx, "db.pdbf", func(context.Context) error { return nil })
	assert.Error(t, err)
	close(release)
}

func TestWithWriteLockIndependentPathsDoNotContend(t *testing.T) {
	m := NewLockManager(0)
	ctx := context.Background()

	release := make(chan struct{})
	holding := make(chan struct{})
	go func() {
		_ = m.WithWriteLock(ctx, "a.pdbf", func(context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	err := m.WithWriteLock(ctx, "b.pdbf", func(context.Context) error { return nil })
	assert.NoError(t, err)
}
