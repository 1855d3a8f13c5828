package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
)

func TestEncryptDecryptRegionAES(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("names region plaintext")

	cipher, err := EncryptRegion(cryptodomain.AlgorithmAES, key, plaintext)
	require.NoError(t, err)

	plain, err := DecryptRegion(cryptodomain.AlgorithmAES, key, cipher)
	require.NoError(t, err)
	assert.Equal(t, plaintext, plain)
}

func TestEncryptDecryptRegionChaCha20PrefixesIV(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	plaintext := []byte("passwords region plaintext")

	cipher, err := EncryptRegion(cryptodomain.AlgorithmChaCha20, key, plaintext)
	require.NoError(t, err)
	assert.Greater(t, len(cipher), len(plaintext))

	plain, err := DecryptRegion(cryptodomain.AlgorithmChaCha20, key, cipher)
	require.NoError(t, err)
	assert.Equal(t, plaintext, plain)
}

func TestDecryptRegionChaCha20RejectsTruncatedIV(t *testing.T) {
	key := make([]byte, 32)
	_, err := DecryptRegion(cryptodomain.AlgorithmChaCha20, key, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEncryptRegionRejectsUnsupportedAlgorithm(t *testing.T) {
	_, err := EncryptRegion(cryptodomain.Algorithm(99), make([]byte, 32), []byte("x"))
	assert.Error(t, err)
}
