package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

func sampleFields() Fields {
	url := uint32(42)
	return Fields{
		PasswordID: 7,
		GroupID:    3,
		UserID:     5,
		URLID:      &url,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
		Properties: map[uint32]uint32{100: 200, 101: 201},
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	f := sampleFields()
	encoded := f.ToBytes(nil)

	decoded, offset, err := DecodeFields(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), offset)
	assert.Equal(t, f, decoded)
}

func TestFieldsRoundTripNoURL(t *testing.T) {
	f := sampleFields()
	f.URLID = nil
	encoded := f.ToBytes(nil)

	decoded, _, err := DecodeFields(encoded, 0)
	require.NoError(t, err)
	assert.Nil(t, decoded.URLID)
}

func TestDecodeFieldsRejectsTruncation(t *testing.T) {
	_, _, err := DecodeFields([]byte{1, 2, 3}, 0)
	assert.True(t, pmanerrors.Is(err, pmanerrors.ErrInvalidData))
}

func TestEntityRoundTrip(t *testing.T) {
	e := Entity{NameID: 1, History: []Fields{sampleFields(), sampleFields()}}
	encoded := e.ToBytes()

	decoded, err := DecodeEntity(encoded)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
	assert.Equal(t, 1, decoded.MaxVersion())
}

func TestDecodeEntityRejectsTrailingBytes(t *testing.T) {
	e := Entity{NameID: 1, History: []Fields{sampleFields()}}
	encoded := append(e.ToBytes(), 0xff)

	_, err := DecodeEntity(encoded)
	assert.True(t, pmanerrors.Is(err, pmanerrors.ErrInvalidData))
}

func TestCollectNamesAndPasswordsIDs(t *testing.T) {
	url1, url2 := uint32(10), uint32(11)
	e := Entity{
		NameID: 1,
		History: []Fields{
			{PasswordID: 20, Properties: map[uint32]uint32{100: 200}, URLID: &url1},
			{PasswordID: 21, Properties: map[uint32]uint32{101: 201}, URLID: &url2},
		},
	}

	names := e.CollectNamesIDs()
	assert.ElementsMatch(t, []uint32{1, 10, 11, 100, 101}, names)

	passwords := e.CollectPasswordsIDs()
	assert.ElementsMatch(t, []uint32{20, 21, 200, 201}, passwords)
}

func TestContainsGroupAndUserID(t *testing.T) {
	e := Entity{History: []Fields{{GroupID: 3, UserID: 9}}}
	assert.True(t, e.ContainsGroupID(3))
	assert.False(t, e.ContainsGroupID(4))
	assert.True(t, e.ContainsUserID(9))
	assert.False(t, e.ContainsUserID(10))
}
