package service

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeysAreIndependent(t *testing.T) {
	h1 := sha256.Sum256([]byte("password one"))
	h2 := sha256.Sum256([]byte("password two"))

	params1, err := NewParams(2, 2, 32)
	require.NoError(t, err)
	params2, err := NewParams(2, 2, 32)
	require.NoError(t, err)

	k1, k2 := DeriveKeys(h1[:], params1, h2[:], params2)
	assert.Len(t, k1, keySize)
	assert.Len(t, k2, keySize)
	assert.NotEqual(t, k1, k2)
}

func TestDeriveIsDeterministicForSameInputs(t *testing.T) {
	h := sha256.Sum256([]byte("same password"))
	params, err := NewParams(2, 2, 32)
	require.NoError(t, err)

	a := Derive(h[:], params)
	b := Derive(h[:], params)
	assert.Equal(t, a, b)
}

func TestDeriveDiffersWithFreshSalt(t *testing.T) {
	h := sha256.Sum256([]byte("same password"))
	params1, err := NewParams(2, 2, 32)
	require.NoError(t, err)
	params2, err := NewParams(2, 2, 32)
	require.NoError(t, err)

	a := Derive(h[:], params1)
	b := Derive(h[:], params2)
	assert.NotEqual(t, a, b)
}
