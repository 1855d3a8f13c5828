package service

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// SealCredentials seals plain (an EncodeQS3Credentials blob) behind key, so
// a remote location descriptor's Credentials field never carries the QS3
// access/secret key pair in the clear even inside the already-encrypted
// header catalog.
func SealCredentials(key, plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "location: building credentials seal")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, pmanerrors.Wrap(err, "location: generating credentials nonce")
	}
	sealed := aead.Seal(nonce, nonce, plain, nil)
	return sealed, nil
}

// OpenCredentials is the inverse of SealCredentials.
func OpenCredentials(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "location: building credentials seal")
	}
	if len(sealed) < aead.NonceSize() {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location: truncated sealed credentials")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, pmanerrors.Wrap(pmanerrors.ErrIntegrity, "location: opening sealed credentials")
	}
	return plain, nil
}
