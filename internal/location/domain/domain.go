// Package domain models a file location descriptor: where a region's bytes
// live, and what credentials are needed to fetch or store them.
package domain

import (
	"context"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

const (
	// KindLocal is the 1-byte sentinel descriptor: the caller already holds
	// the bytes, nothing to fetch.
	KindLocal uint8 = 0

	// KindRemote is a QS3 (signed object store) descriptor carrying a path
	// and an opaque credentials blob.
	KindRemote uint8 = 1
)

// Descriptor is the parsed form of a location's on-disk encoding.
type Descriptor struct {
	Kind        uint8
	Path        string
	Credentials []byte
}

// ToBytes encodes the descriptor: `u8 kind, [kind=remote: u8 path_len, path,
// u8 key_len, key]`.
func (d Descriptor) ToBytes() []byte {
	if d.Kind == KindLocal {
		return []byte{KindLocal}
	}
	out := make([]byte, 0, 3+len(d.Path)+len(d.Credentials))
	out = append(out, d.Kind)
	out = append(out, byte(len(d.Path)))
	out = append(out, d.Path...)
	out = append(out, byte(len(d.Credentials)))
	out = append(out, d.Credentials...)
	return out
}

// DecodeDescriptor parses a Descriptor from its on-disk encoding.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	if len(data) == 0 {
		return Descriptor{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location descriptor: empty")
	}
	if data[0] == KindLocal {
		if len(data) != 1 {
			return Descriptor{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location descriptor: malformed local sentinel")
		}
		return Descriptor{Kind: KindLocal}, nil
	}
	if len(data) < 2 {
		return Descriptor{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location descriptor: truncated path length")
	}
	pathLen := int(data[1])
	if len(data) < 2+pathLen+1 {
		return Descriptor{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location descriptor: truncated path")
	}
	path := string(data[2 : 2+pathLen])
	keyLenOffset := 2 + pathLen
	keyLen := int(data[keyLenOffset])
	if len(data) != keyLenOffset+1+keyLen {
		return Descriptor{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "location descriptor: truncated credentials")
	}
	credentials := make([]byte, keyLen)
	copy(credentials, data[keyLenOffset+1:])
	return Descriptor{Kind: data[0], Path: path, Credentials: credentials}, nil
}

// FileAction is a pending local write the caller (the driver, or a CLI
// command) is responsible for persisting, mirroring the upload side of a
// Local handler.
type FileAction struct {
	FileName string
	Data     []byte
}

// Handler is the capability set every location variant implements.
type Handler interface {
	Download(ctx context.Context) ([]byte, error)
	Upload(ctx context.Context, data []byte) error
}
