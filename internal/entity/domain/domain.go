// Package domain models the entity record, its version history, and the
// group/user records its versions reference.
package domain

import (
	"encoding/binary"
	"time"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// Fields is one version of an entity: the password/group/user references at
// the time it was created, plus any extra string properties. It is
// immutable once written to history.
type Fields struct {
	PasswordID uint32
	GroupID    uint32
	UserID     uint32
	URLID      *uint32
	CreatedAt  time.Time
	// Properties maps a property-name id (interned in the names region) to
	// a property-value id (interned in the passwords region).
	Properties map[uint32]uint32
}

// ToBytes appends Fields' on-disk coding to output: `u32 password_id, u32
// group_id, u32 user_id, u32 url_id (0 = absent), u64 created_at_seconds,
// u8 properties_len, repeated (u32 key, u32 value)`.
func (f Fields) ToBytes(output []byte) []byte {
	var urlID uint32
	if f.URLID != nil {
		urlID = *f.URLID
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], f.PasswordID)
	output = append(output, buf[:]...)
	binary.LittleEndian.PutUint32(buf[:], f.GroupID)
	output = append(output, buf[:]...)
	binary.LittleEndian.PutUint32(buf[:], f.UserID)
	output = append(output, buf[:]...)
	binary.LittleEndian.PutUint32(buf[:], urlID)
	output = append(output, buf[:]...)

	var buf8 [8]byte
	binary.LittleEndian.PutUint64(buf8[:], uint64(f.CreatedAt.Unix()))
	output = append(output, buf8[:]...)

	output = append(output, byte(len(f.Properties)))
	for k, v := range f.Properties {
		binary.LittleEndian.PutUint32(buf[:], k)
		output = append(output, buf[:]...)
		binary.LittleEndian.PutUint32(buf[:], v)
		output = append(output, buf[:]...)
	}
	return output
}

// DecodeFields parses one Fields record starting at offset in source,
// returning it plus the offset immediately following it.
func DecodeFields(source []byte, offset int) (Fields, int, error) {
	if len(source) < offset+25 {
		return Fields{}, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "entity fields: truncated header")
	}
	passwordID := binary.LittleEndian.Uint32(source[offset : offset+4])
	groupID := binary.LittleEndian.Uint32(source[offset+4 : offset+8])
	userID := binary.LittleEndian.Uint32(source[offset+8 : offset+12])
	urlID := binary.LittleEndian.Uint32(source[offset+12 : offset+16])
	createdAt := binary.LittleEndian.Uint64(source[offset+16 : offset+24])
	propertiesLen := int(source[offset+24])
	offset += 25

	if len(source) < offset+propertiesLen*8 {
		return Fields{}, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "entity fields: truncated properties")
	}
	properties := make(map[uint32]uint32, propertiesLen)
	for i := 0; i < propertiesLen; i++ {
		key := binary.LittleEndian.Uint32(source[offset : offset+4])
		value := binary.LittleEndian.Uint32(source[offset+4 : offset+8])
		offset += 8
		if _, exists := properties[key]; exists {
			return Fields{}, 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "entity fields: duplicate property key")
		}
		properties[key] = value
	}

	fields := Fields{
		PasswordID: passwordID,
		GroupID:    groupID,
		UserID:     userID,
		CreatedAt:  time.Unix(int64(createdAt), 0).UTC(),
		Properties: properties,
	}
	if urlID != 0 {
		fields.URLID = &urlID
	}
	return fields, offset, nil
}

// CollectNamesIDs adds the names-region ids this version refers to (its URL
// id, if any, and every property key) to result.
func (f Fields) CollectNamesIDs(result map[uint32]struct{}) {
	if f.URLID != nil {
		result[*f.URLID] = struct{}{}
	}
	for k := range f.Properties {
		result[k] = struct{}{}
	}
}

// CollectPasswordsIDs adds the passwords-region ids this version refers to
// (its password id and every property value) to result.
func (f Fields) CollectPasswordsIDs(result map[uint32]struct{}) {
	result[f.PasswordID] = struct{}{}
	for _, v := range f.Properties {
		result[v] = struct{}{}
	}
}

// Entity is one password-database entry: an interned display name plus a
// history of versions, newest first. History[0] is the live version.
type Entity struct {
	NameID  uint32
	History []Fields
}

// ToBytes encodes Entity: `u32 name_id, u8 history_len, repeated Fields`.
func (e Entity) ToBytes() []byte {
	out := make([]byte, 0, 5+len(e.History)*33)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], e.NameID)
	out = append(out, buf[:]...)
	out = append(out, byte(len(e.History)))
	for _, f := range e.History {
		out = f.ToBytes(out)
	}
	return out
}

// DecodeEntity parses an Entity from its full on-disk coding, asserting the
// decode consumes exactly len(source) bytes.
func DecodeEntity(source []byte) (Entity, error) {
	if len(source) < 5 {
		return Entity{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "entity: truncated header")
	}
	nameID := binary.LittleEndian.Uint32(source[0:4])
	historyLen := int(source[4])
	offset := 5

	history := make([]Fields, 0, historyLen)
	for i := 0; i < historyLen; i++ {
		fields, newOffset, err := DecodeFields(source, offset)
		if err != nil {
			return Entity{}, err
		}
		history = append(history, fields)
		offset = newOffset
	}
	if offset != len(source) {
		return Entity{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "entity: trailing bytes")
	}
	return Entity{NameID: nameID, History: history}, nil
}

// MaxVersion returns the highest valid version index, newest-first: 0 is
// the live version, len(History)-1 is the oldest still retained.
func (e Entity) MaxVersion() int {
	return len(e.History) - 1
}

// CollectNamesIDs returns every names-region id this entity (its own
// NameID plus every history version) refers to.
func (e Entity) CollectNamesIDs() []uint32 {
	set := map[uint32]struct{}{e.NameID: {}}
	for _, f := range e.History {
		f.CollectNamesIDs(set)
	}
	return idsOf(set)
}

// CollectPasswordsIDs returns every passwords-region id this entity's
// history versions refer to.
func (e Entity) CollectPasswordsIDs() []uint32 {
	set := make(map[uint32]struct{})
	for _, f := range e.History {
		f.CollectPasswordsIDs(set)
	}
	return idsOf(set)
}

// ContainsGroupID reports whether any history version references groupID.
func (e Entity) ContainsGroupID(groupID uint32) bool {
	for _, f := range e.History {
		if f.GroupID == groupID {
			return true
		}
	}
	return false
}

// ContainsUserID reports whether any history version references userID.
func (e Entity) ContainsUserID(userID uint32) bool {
	for _, f := range e.History {
		if f.UserID == userID {
			return true
		}
	}
	return false
}

func idsOf(set map[uint32]struct{}) []uint32 {
	out := make([]uint32, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Group is an entity category; names live in the names region.
type Group struct {
	ID            uint32
	Name          string
	EntitiesCount uint32
}

// User identifies who an entity's credential belongs to; names live in the
// names region.
type User struct {
	ID   uint32
	Name string
}
