// Package service implements the encrypted key-value map (EKVM): a u32-keyed
// map whose values are individually encrypted through a cryptoproc.Processor,
// with a flat on-disk frame of `u32 count` followed by repeated
// `(u32 id, u32 value_len, bytes)` records. It is the building block every
// header, entity, and names/passwords interning table in the database is
// made of.
package service

import (
	"encoding/binary"

	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	"github.com/go-pman/pman/internal/ekvm/domain"
	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// firstID is the first id handed out by Add. IDs below it are reserved for
// fixed-purpose records such as the header catalog's hash/encryption/
// location entries (see the datafile package).
const firstID = 100

// Map is an encrypted key-value map. It is not safe for concurrent use and
// holds no lock; cmd/pman serializes access to a database file through
// database.LockManager.
type Map struct {
	nextID    uint32
	values    map[uint32][]byte
	processor cryptodomain.Processor
}

// New creates an empty Map.
func New(processor cryptodomain.Processor) *Map {
	return &Map{nextID: firstID, values: make(map[uint32][]byte), processor: processor}
}

// Load parses a Map frame starting at offset in source and returns the map
// plus the offset immediately after the frame.
func Load(source []byte, offset int, processor cryptodomain.Processor) (*Map, int, error) {
	sl := len(source)
	if offset+4 > sl {
		return nil, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "ekvm frame: truncated count")
	}
	count := binary.LittleEndian.Uint32(source[offset : offset+4])
	idx := offset + 4

	values := make(map[uint32][]byte, count)
	nextID := uint32(firstID)
	for i := uint32(0); i < count; i++ {
		if idx+8 > sl {
			return nil, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "ekvm frame: truncated record header")
		}
		key := binary.LittleEndian.Uint32(source[idx : idx+4])
		idx += 4
		if _, exists := values[key]; exists {
			return nil, 0, pmanerrors.Wrapf(pmanerrors.ErrInvalidData, "ekvm frame: duplicate key %d", key)
		}
		valueLen := binary.LittleEndian.Uint32(source[idx : idx+4])
		idx += 4
		if idx+int(valueLen) > sl {
			return nil, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "ekvm frame: truncated value")
		}
		value := make([]byte, valueLen)
		copy(value, source[idx:idx+int(valueLen)])
		idx += int(valueLen)

		values[key] = value
		if key >= nextID {
			nextID = key + 1
		}
	}
	return &Map{nextID: nextID, values: values, processor: processor}, idx, nil
}

// Add encrypts and inserts value at a freshly allocated id.
func (m *Map) Add(value domain.ByteValue) uint32 {
	id := m.nextID
	m.values[id] = m.processor.Encode(value.ToBytes())
	m.nextID++
	return id
}

// AddWithID encrypts and inserts value at the given id. It fails if id is
// already present; on success it advances the next auto-allocated id past
// id, even though id itself was caller-chosen.
func (m *Map) AddWithID(id uint32, value domain.ByteValue) error {
	if _, exists := m.values[id]; exists {
		return pmanerrors.Wrapf(pmanerrors.ErrAlreadyExists, "ekvm record %d", id)
	}
	m.values[id] = m.processor.Encode(value.ToBytes())
	if id >= m.nextID {
		m.nextID = id + 1
	}
	return nil
}

// Set encrypts and inserts or overwrites value at id. Unlike AddWithID, Set
// never fails on a pre-existing id — it is always set-or-insert.
func (m *Map) Set(id uint32, value domain.ByteValue) {
	m.values[id] = m.processor.Encode(value.ToBytes())
}

// Remove deletes id if present. It is a no-op if id is absent.
func (m *Map) Remove(id uint32) {
	delete(m.values, id)
}

// Contains reports whether id is present.
func (m *Map) Contains(id uint32) bool {
	_, ok := m.values[id]
	return ok
}

// RecordsCount returns the number of values currently stored.
func (m *Map) RecordsCount() int {
	return len(m.values)
}

// IDs returns every id currently stored, in no particular order. Listing
// operations (groups, users, entities-by-group) enumerate a map this way
// rather than through an arena Uint32List, since the map itself is already
// the authoritative id set.
func (m *Map) IDs() []uint32 {
	ids := make([]uint32, 0, len(m.values))
	for id := range m.values {
		ids = append(ids, id)
	}
	return ids
}

// Get decrypts and decodes the value at id using decode.
func Get[T any](m *Map, id uint32, decode func([]byte) (T, error)) (T, error) {
	var zero T
	raw, ok := m.values[id]
	if !ok {
		return zero, pmanerrors.Wrapf(pmanerrors.ErrNotFound, "ekvm record %d", id)
	}
	plain, err := m.processor.Decode(raw)
	if err != nil {
		return zero, err
	}
	return decode(plain)
}

// MGet decrypts and decodes every id in ids, failing if any is absent.
func MGet[T any](m *Map, ids []uint32, decode func([]byte) (T, error)) (map[uint32]T, error) {
	result := make(map[uint32]T, len(ids))
	for _, id := range ids {
		v, err := Get(m, id, decode)
		if err != nil {
			return nil, err
		}
		result[id] = v
	}
	return result, nil
}

// GetIndirect treats the value at id as a domain.Uint32List of further ids
// and MGets them. A missing parent id yields an empty result rather than an
// error, since an arena entry with no members is indistinguishable from one
// that was never created.
func GetIndirect[T any](m *Map, id uint32, decode func([]byte) (T, error)) (map[uint32]T, error) {
	items, err := Get(m, id, domain.DecodeUint32List)
	if err != nil {
		if pmanerrors.Is(err, pmanerrors.ErrNotFound) {
			return map[uint32]T{}, nil
		}
		return nil, err
	}
	if len(items) == 0 {
		return map[uint32]T{}, nil
	}
	return MGet(m, items, decode)
}

// Save re-encrypts every value with newProcessor (or the map's current
// processor if nil) and appends the resulting frame to output. It is the
// key-rotation primitive: after Save, the map's own processor and stored
// ciphertexts are updated to match what was just written.
func (m *Map) Save(output []byte, newProcessor cryptodomain.Processor) []byte {
	encodeProcessor := newProcessor
	if encodeProcessor == nil {
		encodeProcessor = m.processor
	}

	countOffset := len(output)
	output = append(output, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(output[countOffset:countOffset+4], uint32(len(m.values)))

	newValues := make(map[uint32][]byte, len(m.values))
	for key, value := range m.values {
		plain, err := m.processor.Decode(value)
		if err != nil {
			// Decode only fails on corrupted ciphertext, which would already
			// have surfaced when this map was loaded or populated.
			panic(err)
		}
		encoded := encodeProcessor.Encode(plain)

		var header [8]byte
		binary.LittleEndian.PutUint32(header[0:4], key)
		binary.LittleEndian.PutUint32(header[4:8], uint32(len(encoded)))
		output = append(output, header[:]...)
		output = append(output, encoded...)

		newValues[key] = encoded
	}
	m.values = newValues
	m.processor = encodeProcessor
	return output
}
