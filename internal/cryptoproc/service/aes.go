package service

import (
	"crypto/aes"
	"crypto/rand"
	"encoding/binary"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

const (
	aesBlockSize    = 16
	aesFirstPayload = 5
	aesRestPayload  = 9
)

// AESProcessor packs plaintext into independently AES-256-encrypted 16-byte
// blocks: 7 random bytes followed by up to 9 payload bytes, with the total
// plaintext length carried in the first block. It is not a standard block
// mode — each block is encrypted on its own, so identical plaintext blocks
// never produce identical ciphertext thanks to the random prefix.
type AESProcessor struct {
	cipher interface {
		Encrypt(dst, src []byte)
		Decrypt(dst, src []byte)
	}
}

// NewAESProcessor builds a processor from a 32-byte key.
func NewAESProcessor(key []byte) (*AESProcessor, error) {
	if len(key) != 32 {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidInput, "aes processor requires a 32-byte key")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "building aes cipher")
	}
	return &AESProcessor{cipher: block}, nil
}

// Encode implements domain.Processor. An empty input produces empty output:
// there is no block to carry a zero length in, and Decode treats empty
// ciphertext as an empty value for the same reason.
func (p *AESProcessor) Encode(data []byte) []byte {
	out := make([]byte, 0, (len(data)/aesRestPayload+2)*aesBlockSize)
	l := len(data)
	idx := 0
	for idx < len(data) {
		block := make([]byte, aesBlockSize)
		_, _ = rand.Read(block[:7])
		if idx == 0 {
			binary.LittleEndian.PutUint32(block[7:11], uint32(l))
			size := min(l, aesFirstPayload)
			copy(block[11:11+size], data[0:size])
			idx = size
			l -= size
		} else {
			size := min(l, aesRestPayload)
			copy(block[7:7+size], data[idx:idx+size])
			idx += size
			l -= size
		}
		enc := make([]byte, aesBlockSize)
		p.cipher.Encrypt(enc, block)
		out = append(out, enc...)
	}
	return out
}

// Decode implements domain.Processor.
func (p *AESProcessor) Decode(data []byte) ([]byte, error) {
	if len(data)%aesBlockSize != 0 {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "aes ciphertext not block aligned")
	}
	out := make([]byte, 0, len(data))
	outLength := 0
	for i := 0; i < len(data); i += aesBlockSize {
		block := make([]byte, aesBlockSize)
		p.cipher.Decrypt(block, data[i:i+aesBlockSize])
		if i == 0 {
			outLength = int(binary.LittleEndian.Uint32(block[7:11]))
			size := min(outLength, aesFirstPayload)
			out = append(out, block[11:11+size]...)
			outLength -= size
		} else {
			if outLength == 0 {
				return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "corrupted data")
			}
			size := min(outLength, aesRestPayload)
			out = append(out, block[7:7+size]...)
			outLength -= size
		}
	}
	if outLength != 0 {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "corrupted data")
	}
	return out, nil
}
