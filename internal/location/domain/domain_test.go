package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

func TestLocalSentinelRoundTrip(t *testing.T) {
	encoded := Descriptor{Kind: KindLocal}.ToBytes()
	assert.Equal(t, []byte{0}, encoded)

	decoded, err := DecodeDescriptor(encoded)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Kind: KindLocal}, decoded)
}

func TestRemoteDescriptorRoundTrip(t *testing.T) {
	d := Descriptor{Kind: KindRemote, Path: "passwords.bin", Credentials: []byte("opaque-credentials-blob")}
	encoded := d.ToBytes()

	decoded, err := DecodeDescriptor(encoded)
	require.NoError(t, err)
	assert.Equal(t, d, decoded)
}

func TestDecodeDescriptorRejectsTruncation(t *testing.T) {
	_, err := DecodeDescriptor(nil)
	assert.True(t, pmanerrors.Is(err, pmanerrors.ErrInvalidData))

	_, err = DecodeDescriptor([]byte{1, 5, 'a', 'b'})
	assert.True(t, pmanerrors.Is(err, pmanerrors.ErrInvalidData))
}
