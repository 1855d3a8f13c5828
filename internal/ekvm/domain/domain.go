// Package domain defines the value contract for the encrypted key-value map
// (EKVM): anything stored in a Map must know how to turn itself into bytes,
// and callers decode those bytes back with a matching function.
package domain

import (
	"encoding/binary"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// ByteValue is the serialization half of the EKVM value contract. The
// deserialization half is a plain `func([]byte) (T, error)` passed
// explicitly to Get/MGet/GetIndirect — Go has no single interface method
// that can return a generic T, so decoding is supplied by the caller
// instead of required on the type.
type ByteValue interface {
	ToBytes() []byte
}

// RawBytes is the identity ByteValue: stored and returned unchanged.
type RawBytes []byte

// ToBytes implements ByteValue.
func (b RawBytes) ToBytes() []byte { return []byte(b) }

// DecodeRawBytes is the decode counterpart to RawBytes.
func DecodeRawBytes(data []byte) (RawBytes, error) { return RawBytes(data), nil }

// String is the UTF-8 string ByteValue.
type String string

// ToBytes implements ByteValue.
func (s String) ToBytes() []byte { return []byte(s) }

// DecodeString is the decode counterpart to String.
func DecodeString(data []byte) (String, error) { return String(data), nil }

// Uint32List is a ByteValue holding an ordered list of IDs; it is the value
// type Map.GetIndirect reads. The database facade stores no such lists.
// Encoded as little-endian u32 values back to back.
type Uint32List []uint32

// ToBytes implements ByteValue.
func (l Uint32List) ToBytes() []byte {
	out := make([]byte, len(l)*4)
	for i, v := range l {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// DecodeUint32List is the decode counterpart to Uint32List.
func DecodeUint32List(data []byte) (Uint32List, error) {
	if len(data)%4 != 0 {
		return nil, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "uint32 list not 4-byte aligned")
	}
	out := make(Uint32List, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return out, nil
}
