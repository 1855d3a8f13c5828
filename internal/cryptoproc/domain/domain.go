// Package domain defines the cryptographic processor capability set shared
// by every region and value codec in the database file.
package domain

// Algorithm identifies the wire-level encryption scheme carried in a
// region's algorithm-parameters byte and in the header's encryption
// descriptors.
type Algorithm uint8

const (
	// AlgorithmAES selects the 16-byte-block AES-256 processor.
	AlgorithmAES Algorithm = 1

	// AlgorithmChaCha20 selects the raw ChaCha20 stream processor. Its IV is
	// carried immediately before the ciphertext it protects, not inside the
	// algorithm-parameters byte.
	AlgorithmChaCha20 Algorithm = 2
)

// Processor is the capability set every region and EKVM value is encrypted
// through. Encode always succeeds. Decode reports only the malformed input
// a variant can recognize: the ChaCha20 and identity variants decode any
// bytes without error.
type Processor interface {
	Encode(plaintext []byte) []byte
	Decode(ciphertext []byte) ([]byte, error)
}
