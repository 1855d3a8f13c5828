package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// AppendHashAndHMAC appends HMAC-SHA256(k1, data) then SHA-256(data||hmac)
// to data, producing the file's two trailing tags in the order the load
// procedure expects to find and verify them.
func AppendHashAndHMAC(data []byte, k1 []byte) []byte {
	mac := hmac.New(sha256.New, k1)
	mac.Write(data)
	tagged := append(data, mac.Sum(nil)...)
	sum := sha256.Sum256(tagged)
	return append(tagged, sum[:]...)
}

// ValidateHash verifies the outer SHA-256 tail and returns the length of the
// prefix it covers (everything before the hash itself).
func ValidateHash(data []byte) (int, error) {
	if len(data) < sha256.Size {
		return 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "data file: truncated hash tail")
	}
	covered := len(data) - sha256.Size
	want := sha256.Sum256(data[:covered])
	if !bytes.Equal(want[:], data[covered:]) {
		return 0, pmanerrors.Wrap(pmanerrors.ErrIntegrity, "file hash does not match")
	}
	return covered, nil
}

// ValidateHMAC verifies the HMAC tail within data[:l] (l as returned by
// ValidateHash) using k1, and returns the length of the region-1 ciphertext
// it covers.
func ValidateHMAC(data []byte, l int, k1 []byte) (int, error) {
	if l < sha256.Size {
		return 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "data file: truncated hmac tail")
	}
	regionLen := l - sha256.Size
	mac := hmac.New(sha256.New, k1)
	mac.Write(data[:regionLen])
	if !hmac.Equal(mac.Sum(nil), data[regionLen:l]) {
		return 0, pmanerrors.Wrap(pmanerrors.ErrIntegrity, "hmac does not match")
	}
	return regionLen, nil
}
