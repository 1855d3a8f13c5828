package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pman/pman/internal/app"
	"github.com/go-pman/pman/internal/config"
	"github.com/go-pman/pman/internal/testutil"
)

// passwordIO returns a fresh IOTuple whose reader feeds both database
// passwords, the way a terminal user would type them one per prompt.
func passwordIO(out *bytes.Buffer) IOTuple {
	return IOTuple{Reader: strings.NewReader("first-password\nsecond-password\n"), Writer: out}
}

func TestCreateGroupUserEntitySearchEndToEnd(t *testing.T) {
	ctx := context.Background()
	container := app.NewContainer(&config.Config{LockTimeout: 5 * time.Second})
	path := filepath.Join(filepath.Dir(testutil.TempDBFile(t)), "wallet.pdbf")

	var out bytes.Buffer
	require.NoError(t, RunCreate(ctx, container, CreateOptions{
		Path:                 path,
		HistoryDepth:         3,
		EncryptionAlgorithm1: "aes",
		EncryptionAlgorithm2: "chacha20",
		NamesLocation:        "local",
		PasswordsLocation:    "local",
		Argon2Iterations:     1,
		Argon2Parallelism:    1,
		Argon2MemoryMiB:      8,
	}, passwordIO(&out)))

	out.Reset()
	require.NoError(t, RunGroupAdd(ctx, container, path, "personal", passwordIO(&out)))
	out.Reset()
	require.NoError(t, RunUserAdd(ctx, container, path, "alice", passwordIO(&out)))

	out.Reset()
	require.NoError(t, RunGroupList(ctx, container, path, false, passwordIO(&out)))
	assert.Contains(t, out.String(), "personal")

	const firstEntityID = 100

	out.Reset()
	require.NoError(t, RunEntityAdd(ctx, container, path, "github", EntityFields{
		GroupID:    firstEntityID,
		UserID:     firstEntityID,
		Password:   "s3cr3t",
		Properties: []string{"note=work account"},
	}, passwordIO(&out)))
	assert.Contains(t, out.String(), "entity 100 created")

	out.Reset()
	require.NoError(t, RunSearch(ctx, container, path, "git", false, passwordIO(&out)))
	assert.Contains(t, out.String(), "github")

	out.Reset()
	require.NoError(t, RunEntityHistory(ctx, container, path, firstEntityID, passwordIO(&out)))
	assert.Contains(t, out.String(), "s3cr3t")

	out.Reset()
	require.NoError(t, RunRotateSalt(ctx, container, path, passwordIO(&out)))

	out.Reset()
	require.NoError(t, RunEntityHistory(ctx, container, path, firstEntityID, passwordIO(&out)))
	assert.Contains(t, out.String(), "s3cr3t")
}

func TestRunGenPwPrintsGeneratedPassword(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunGenPw("gena10", IOTuple{Writer: &out}))
	assert.Len(t, strings.TrimSpace(out.String()), 10)
}
