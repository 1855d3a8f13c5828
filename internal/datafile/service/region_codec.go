package service

import (
	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	cryptoservice "github.com/go-pman/pman/internal/cryptoproc/service"
	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// EncryptRegion builds the processor for alg/key and encodes plaintext. For
// AlgorithmChaCha20 a fresh IV is generated and prefixed to the ciphertext,
// since the IV is not part of the processor itself (it must travel with the
// bytes it protects).
func EncryptRegion(alg cryptodomain.Algorithm, key, plaintext []byte) ([]byte, error) {
	if alg == cryptodomain.AlgorithmChaCha20 {
		iv, err := cryptoservice.NewIV()
		if err != nil {
			return nil, err
		}
		proc, err := cryptoservice.New(alg, key, iv)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(iv)+len(plaintext))
		out = append(out, iv...)
		out = append(out, proc.Encode(plaintext)...)
		return out, nil
	}
	proc, err := cryptoservice.New(alg, key, nil)
	if err != nil {
		return nil, err
	}
	return proc.Encode(plaintext), nil
}

// DecryptRegion consumes the ChaCha20 IV prefix from data when alg requires
// one, then decrypts the remainder with key.
func DecryptRegion(alg cryptodomain.Algorithm, key, data []byte) ([]byte, error) {
	if alg == cryptodomain.AlgorithmChaCha20 {
		if len(data) < cryptoservice.ChaCha20IVSize {
			return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "data file: truncated chacha20 iv")
		}
		iv := data[:cryptoservice.ChaCha20IVSize]
		proc, err := cryptoservice.New(alg, key, iv)
		if err != nil {
			return nil, err
		}
		return proc.Decode(data[cryptoservice.ChaCha20IVSize:])
	}
	proc, err := cryptoservice.New(alg, key, nil)
	if err != nil {
		return nil, err
	}
	return proc.Decode(data)
}
