// Package service implements the concrete Processor variants: AES-256 block
// packing, raw ChaCha20, and an identity passthrough, selected by
// domain.Algorithm.
package service

import (
	"crypto/rand"

	"github.com/go-pman/pman/internal/cryptoproc/domain"
	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// ChaCha20IVSize is the number of bytes of fresh IV a region generates when
// it is first encrypted with ChaCha20, and the number of bytes a reader must
// consume from the start of that region before decrypting it.
const ChaCha20IVSize = 12

// New builds the processor for alg using key. For AlgorithmChaCha20, iv must
// be exactly ChaCha20IVSize bytes; for AlgorithmAES it is ignored.
func New(alg domain.Algorithm, key, iv []byte) (domain.Processor, error) {
	switch alg {
	case domain.AlgorithmAES:
		return NewAESProcessor(key)
	case domain.AlgorithmChaCha20:
		return NewChaCha20Processor(key, iv)
	default:
		return nil, pmanerrors.Wrapf(pmanerrors.ErrUnsupported, "encryption algorithm %d", alg)
	}
}

// NewIV generates a fresh random IV suitable for AlgorithmChaCha20.
func NewIV() ([]byte, error) {
	iv := make([]byte, ChaCha20IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, pmanerrors.Wrap(err, "generating chacha20 iv")
	}
	return iv, nil
}
