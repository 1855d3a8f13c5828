package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmandomain "github.com/go-pman/pman/internal/pman/domain"
)

func TestRegistryRegisterGetRemove(t *testing.T) {
	r := NewRegistry()
	db1 := &pmandomain.Database{}
	db2 := &pmandomain.Database{}

	id1 := r.Register(db1)
	id2 := r.Register(db2)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, r.Count())

	got, err := r.Get(id1)
	require.NoError(t, err)
	assert.Same(t, db1, got)

	r.Remove(id1)
	assert.Equal(t, 1, r.Count())
	_, err = r.Get(id1)
	assert.Error(t, err)
}

func TestRegistryGetUnknownID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(999)
	assert.Error(t, err)
}

func TestDefaultRegistryIsSharedInstance(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
