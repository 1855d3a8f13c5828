// Package domain models the Argon2 parameter block stored in the header
// catalog for each of the two password-derived keys.
package domain

import (
	"encoding/binary"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

const (
	// KindArgon2 is the only hash-algorithm kind this module understands.
	// It is carried as the first byte of an encoded Params so the format
	// can grow additional kinds without breaking existing header parsing.
	KindArgon2 = 1

	// SaltSize is the length in bytes of the salt carried in a Params.
	SaltSize = 16

	// EncodedSize is the total length in bytes of an encoded Params.
	EncodedSize = 1 + 1 + 1 + 2 + SaltSize
)

// Params is one Argon2id cost descriptor: iterations, parallelism, and
// memory cost in MiB, plus the salt used for this derivation. Two
// independent Params (and two independent derivations) protect the names
// and passwords regions.
type Params struct {
	Iterations  uint8
	Parallelism uint8
	MemoryMiB   uint16
	Salt        [SaltSize]byte
}

// ToBytes encodes Params as the header descriptor format: kind byte,
// iterations, parallelism, little-endian memory-MiB, then the raw salt.
func (p Params) ToBytes() []byte {
	out := make([]byte, EncodedSize)
	out[0] = KindArgon2
	out[1] = p.Iterations
	out[2] = p.Parallelism
	binary.LittleEndian.PutUint16(out[3:5], p.MemoryMiB)
	copy(out[5:5+SaltSize], p.Salt[:])
	return out
}

// DecodeParams is the decode counterpart to Params.ToBytes.
func DecodeParams(data []byte) (Params, error) {
	if len(data) != EncodedSize {
		return Params{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "argon2 params: wrong size")
	}
	if data[0] != KindArgon2 {
		return Params{}, pmanerrors.Wrapf(pmanerrors.ErrUnsupported, "hash algorithm kind %d", data[0])
	}
	var p Params
	p.Iterations = data[1]
	p.Parallelism = data[2]
	p.MemoryMiB = binary.LittleEndian.Uint16(data[3:5])
	copy(p.Salt[:], data[5:5+SaltSize])
	return p, nil
}
