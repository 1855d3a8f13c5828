package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pman/pman/internal/cryptoproc/domain"
)

func TestNewDispatchesByAlgorithm(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	iv, err := NewIV()
	require.NoError(t, err)

	aesProc, err := New(domain.AlgorithmAES, key, nil)
	require.NoError(t, err)
	assert.IsType(t, &AESProcessor{}, aesProc)

	chachaProc, err := New(domain.AlgorithmChaCha20, key, iv)
	require.NoError(t, err)
	assert.IsType(t, &ChaCha20Processor{}, chachaProc)

	_, err = New(domain.Algorithm(99), key, iv)
	assert.Error(t, err)
}

func TestIdentityProcessorIsNoOp(t *testing.T) {
	var proc IdentityProcessor
	data := []byte("passthrough")
	encoded := proc.Encode(data)
	assert.Equal(t, data, encoded)
	decoded, err := proc.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
