package service

import (
	"golang.org/x/crypto/chacha20"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// ChaCha20Processor is a raw ChaCha20 stream cipher: no authentication tag,
// no framing beyond the ciphertext itself. The IV (nonce) is generated and
// carried by the caller — typically prefixed to the region it protects —
// rather than embedded in the processor's output.
type ChaCha20Processor struct {
	key []byte
	iv  []byte
}

// NewChaCha20Processor builds a processor from a 32-byte key and a 12-byte IV.
func NewChaCha20Processor(key, iv []byte) (*ChaCha20Processor, error) {
	if len(key) != chacha20.KeySize {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidInput, "chacha20 processor requires a 32-byte key")
	}
	if len(iv) != chacha20.NonceSize {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidInput, "chacha20 processor requires a 12-byte iv")
	}
	return &ChaCha20Processor{key: key, iv: iv}, nil
}

func (p *ChaCha20Processor) cipher() *chacha20.Cipher {
	c, err := chacha20.NewUnauthenticatedCipher(p.key, p.iv)
	if err != nil {
		// key and iv lengths are validated at construction time.
		panic(err)
	}
	return c
}

// Encode implements domain.Processor.
func (p *ChaCha20Processor) Encode(data []byte) []byte {
	out := make([]byte, len(data))
	p.cipher().XORKeyStream(out, data)
	return out
}

// Decode implements domain.Processor. ChaCha20 is its own inverse.
func (p *ChaCha20Processor) Decode(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	p.cipher().XORKeyStream(out, data)
	return out, nil
}
