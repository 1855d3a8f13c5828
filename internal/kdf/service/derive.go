// Package service derives the two password-protected keys from the
// caller-supplied password hashes and the header's Argon2 parameter blocks.
package service

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	"github.com/go-pman/pman/internal/kdf/domain"
)

const keySize = 32

// NewParams builds a fresh Params with a random salt and the given cost
// settings, as used when a database is created or its salts are rotated.
func NewParams(iterations, parallelism uint8, memoryMiB uint16) (domain.Params, error) {
	var p domain.Params
	p.Iterations = iterations
	p.Parallelism = parallelism
	p.MemoryMiB = memoryMiB
	if _, err := rand.Read(p.Salt[:]); err != nil {
		return domain.Params{}, err
	}
	return p, nil
}

// Derive runs Argon2id over passwordHash and params, producing a 32-byte key.
func Derive(passwordHash []byte, params domain.Params) []byte {
	memoryKiB := uint32(params.MemoryMiB) * 1024
	return argon2.IDKey(passwordHash, params.Salt[:], uint32(params.Iterations), memoryKiB, params.Parallelism, keySize)
}

// DeriveKeys derives the two independent region keys k1 (names region,
// authenticates the whole file) and k2 (passwords region) from their
// respective password hashes and Argon2 parameter blocks.
func DeriveKeys(h1 []byte, params1 domain.Params, h2 []byte, params2 domain.Params) (k1, k2 []byte) {
	return Derive(h1, params1), Derive(h2, params2)
}
