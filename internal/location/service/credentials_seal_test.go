package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealAndOpenCredentialsRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	creds := EncodeQS3Credentials(QS3Credentials{Bucket: "b", Region: "r", AccessKey: "ak", SecretKey: "sk"})

	sealed, err := SealCredentials(key, creds)
	require.NoError(t, err)
	assert.NotEqual(t, creds, sealed)

	opened, err := OpenCredentials(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, creds, opened)
}

func TestOpenCredentialsRejectsWrongKey(t *testing.T) {
	key1 := make([]byte, 32)
	key2 := make([]byte, 32)
	key2[0] = 1

	sealed, err := SealCredentials(key1, []byte("payload"))
	require.NoError(t, err)

	_, err = OpenCredentials(key2, sealed)
	assert.Error(t, err)
}
