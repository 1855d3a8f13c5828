package commands

import (
	"testing"

	locationdomain "github.com/go-pman/pman/internal/location/domain"
	locationservice "github.com/go-pman/pman/internal/location/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocationFlagLocal(t *testing.T) {
	for _, value := range []string{"", "local"} {
		d, err := parseLocationFlag(value, nil)
		require.NoError(t, err)
		assert.Equal(t, locationdomain.KindLocal, d.Kind)
	}
}

func TestParseLocationFlagQS3RoundTrips(t *testing.T) {
	key := make([]byte, 32)
	d, err := parseLocationFlag("qs3://my-bucket/db/passwords?region=us-east-1&access-key=AK&secret-key=SK", key)
	require.NoError(t, err)
	assert.Equal(t, locationdomain.KindRemote, d.Kind)
	assert.Equal(t, "db/passwords", d.Path)

	plain, err := locationservice.OpenCredentials(key, d.Credentials)
	require.NoError(t, err)
	creds, err := locationservice.DecodeQS3Credentials(plain)
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", creds.Bucket)
	assert.Equal(t, "us-east-1", creds.Region)
	assert.Equal(t, "AK", creds.AccessKey)
	assert.Equal(t, "SK", creds.SecretKey)
}

func TestParseLocationFlagRejectsBadScheme(t *testing.T) {
	_, err := parseLocationFlag("http://example.com", nil)
	assert.Error(t, err)
}

func TestParseAlgorithmFlag(t *testing.T) {
	_, err := parseAlgorithmFlag("unknown")
	assert.Error(t, err)

	alg, err := parseAlgorithmFlag("aes")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), uint8(alg))

	alg, err = parseAlgorithmFlag("chacha20")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), uint8(alg))
}

func TestParsePropertiesRejectsMalformedEntry(t *testing.T) {
	_, err := parseProperties([]string{"no-equals"})
	assert.Error(t, err)
}

func TestParsePropertiesParsesKeyValuePairs(t *testing.T) {
	props, err := parseProperties([]string{"question=answer", "note=hello"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"question": "answer", "note": "hello"}, props)
}
