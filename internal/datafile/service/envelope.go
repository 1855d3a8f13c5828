// Package service implements the two-region file envelope: the header
// catalog codec, the per-region cipher framing, and the save/load
// procedures that tie them together with the outer HMAC and hash tags.
// Composing the names region's own EKVMs (header catalog, entities, names
// interning table) into one plaintext buffer is the caller's job — this
// package only knows how to protect and validate whatever bytes it is
// given.
package service

import (
	kdfdomain "github.com/go-pman/pman/internal/kdf/domain"

	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// SaveInput groups the already-serialized region-1 plaintext (header
// catalog + entities + names interning table EKVM frames, concatenated by
// the caller) and region-2 plaintext (passwords interning table frame)
// together with the keys and algorithms protecting them.
type SaveInput struct {
	NamesPlain      []byte
	PasswordsPlain  []byte
	K1              []byte
	Algorithm1      cryptodomain.Algorithm
	K2              []byte
	Algorithm2      cryptodomain.Algorithm
	PasswordsRemote bool
}

// SaveResult is the output of Save: the bytes to persist locally, and
// (when the passwords region is remote) the passwords ciphertext to hand
// to its location handler instead of inlining.
type SaveResult struct {
	FileBytes           []byte
	PasswordsCiphertext []byte
}

// Save runs the envelope save procedure: encrypt region-2, inline it after
// region-1's plaintext unless the passwords region is remote, encrypt
// region-1, then append the HMAC and outer hash tags. It does not write
// the clear-prefix mirror of the region-1 Argon2 parameters; callers that
// need it call WriteClearPrefix on the result.
func Save(in SaveInput) (SaveResult, error) {
	region2Cipher, err := EncryptRegion(in.Algorithm2, in.K2, in.PasswordsPlain)
	if err != nil {
		return SaveResult{}, pmanerrors.Wrap(err, "data file: encrypting passwords region")
	}

	region1Plain := in.NamesPlain
	if !in.PasswordsRemote {
		region1Plain = make([]byte, 0, len(in.NamesPlain)+len(region2Cipher))
		region1Plain = append(region1Plain, in.NamesPlain...)
		region1Plain = append(region1Plain, region2Cipher...)
	}

	region1Cipher, err := EncryptRegion(in.Algorithm1, in.K1, region1Plain)
	if err != nil {
		return SaveResult{}, pmanerrors.Wrap(err, "data file: encrypting names region")
	}

	return SaveResult{
		FileBytes:           AppendHashAndHMAC(region1Cipher, in.K1),
		PasswordsCiphertext: region2Cipher,
	}, nil
}

// Load validates the outer hash and HMAC tags and decrypts region-1,
// returning its plaintext. When the passwords region is inline, that
// plaintext ends with the names EKVMs followed immediately by the
// passwords region's ciphertext; the caller determines the split point by
// parsing the names EKVMs in order and treating whatever remains as the
// (possibly empty) inline passwords ciphertext.
func Load(data []byte, k1 []byte, alg1 cryptodomain.Algorithm) ([]byte, error) {
	hashEnd, err := ValidateHash(data)
	if err != nil {
		return nil, err
	}
	regionLen, err := ValidateHMAC(data, hashEnd, k1)
	if err != nil {
		return nil, err
	}
	plain, err := DecryptRegion(alg1, k1, data[:regionLen])
	if err != nil {
		return nil, pmanerrors.Wrap(err, "data file: decrypting names region")
	}
	return plain, nil
}

// LoadPasswords decrypts the passwords region, asserting that data is
// exactly declaredLen bytes long. Neither the location descriptor nor the
// names region records that length; the facade passes len(data).
func LoadPasswords(data []byte, declaredLen int, k2 []byte, alg2 cryptodomain.Algorithm) ([]byte, error) {
	if len(data) != declaredLen {
		return nil, pmanerrors.Wrapf(pmanerrors.ErrInvalidData, "passwords region: expected %d bytes, got %d", declaredLen, len(data))
	}
	plain, err := DecryptRegion(alg2, k2, data)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "data file: decrypting passwords region")
	}
	return plain, nil
}

// clearPrefixSize is the Argon2 parameter block plus the one-byte mirror of
// EncryptionAlgorithm1ID.
const clearPrefixSize = kdfdomain.EncodedSize + 1

// WriteClearPrefix prepends the plaintext mirror of the names-region
// Argon2 parameters (header fixed ID 1) and encryption algorithm (header
// fixed ID 2) ahead of fileBytes. A reader needs both before it can
// decrypt anything else in the file: the params to derive k1, and the
// algorithm byte to know which processor k1 must be handed to. Neither can
// itself live inside the encrypted header catalog alone, since the header
// catalog is the first thing region-1 decryption would need to unlock.
func WriteClearPrefix(params kdfdomain.Params, alg1 cryptodomain.Algorithm, fileBytes []byte) []byte {
	out := make([]byte, 0, clearPrefixSize+len(fileBytes))
	out = append(out, params.ToBytes()...)
	out = append(out, byte(alg1))
	out = append(out, fileBytes...)
	return out
}

// ReadClearPrefix parses the plaintext Argon2 parameter and algorithm
// mirror from the start of data and returns them along with the offset of
// the remaining (HMAC/hash-tagged, still-encrypted) file bytes.
func ReadClearPrefix(data []byte) (kdfdomain.Params, cryptodomain.Algorithm, int, error) {
	if len(data) < clearPrefixSize {
		return kdfdomain.Params{}, 0, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "data file: truncated clear prefix")
	}
	params, err := kdfdomain.DecodeParams(data[:kdfdomain.EncodedSize])
	if err != nil {
		return kdfdomain.Params{}, 0, 0, err
	}
	alg1 := cryptodomain.Algorithm(data[kdfdomain.EncodedSize])
	return params, alg1, clearPrefixSize, nil
}
