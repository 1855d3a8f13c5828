package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
)

func testCreateOptions() pmandomain.CreateOptions {
	return pmandomain.CreateOptions{
		HistoryDepth:         3,
		EncryptionAlgorithm1: cryptodomain.AlgorithmAES,
		EncryptionAlgorithm2: cryptodomain.AlgorithmChaCha20,
		NamesLocation:        locationdomain.Descriptor{Kind: locationdomain.KindLocal},
		PasswordsLocation:    locationdomain.Descriptor{Kind: locationdomain.KindLocal},
		Argon2Iterations:     2,
		Argon2Parallelism:    2,
		Argon2MemoryMiB:      32,
	}
}

// TestCreateAndRoundTrip creates a fresh database, adds one
// group/user/entity, saves, reopens with the same passwords, and expects
// the same logical state back.
func TestCreateAndRoundTrip(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)

	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	entityID, err := AddEntity(db, groupID, userID, "n", "secret", nil, nil)
	require.NoError(t, err)

	fileBytes, _, err := Save(db)
	require.NoError(t, err)

	reopened, pending, err := PreOpen(fileBytes, "alpha", "beta")
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, pmandomain.StateOpen, reopened.State)

	groups, err := GetGroups(reopened)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "g", groups[0].Name)
	assert.Equal(t, uint32(1), groups[0].EntitiesCount)

	users, err := GetUsers(reopened)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u", users[0].Name)

	password, err := GetEntityPassword(reopened, entityID, 0)
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

// TestPreOpenRejectsWrongPassword asserts a bad first password fails key
// derivation's HMAC check rather than silently producing garbage.
func TestPreOpenRejectsWrongPassword(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	_, err = AddGroup(db, "g")
	require.NoError(t, err)
	fileBytes, _, err := Save(db)
	require.NoError(t, err)

	_, _, err = PreOpen(fileBytes, "wrong-password", "beta")
	assert.Error(t, err)
}

// TestRotateSaltChangesCiphertextButNotState asserts saving once, rotating
// salts, and saving again changes the ciphertext while still opening to
// identical logical state under the same passwords.
func TestRotateSaltChangesCiphertextButNotState(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	entityID, err := AddEntity(db, groupID, userID, "n", "secret", nil, nil)
	require.NoError(t, err)

	first, _, err := Save(db)
	require.NoError(t, err)

	require.NoError(t, RotateSalt(db))
	second, _, err := Save(db)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	reopened, _, err := PreOpen(second, "alpha", "beta")
	require.NoError(t, err)
	password, err := GetEntityPassword(reopened, entityID, 0)
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

// TestRemotePasswordsRegionRoundTrip asserts a remote passwords location
// means PreOpen reports a pending fetch instead of decrypting inline, and
// Open finishes once the blob is supplied.
func TestRemotePasswordsRegionRoundTrip(t *testing.T) {
	options := testCreateOptions()
	options.PasswordsLocation = locationdomain.Descriptor{Kind: locationdomain.KindRemote, Path: "passwords.bin"}

	db, err := Create(options, "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	entityID, err := AddEntity(db, groupID, userID, "n", "secret", nil, nil)
	require.NoError(t, err)

	fileBytes, passwordsCiphertext, err := Save(db)
	require.NoError(t, err)
	require.NotEmpty(t, passwordsCiphertext)

	reopened, pending, err := PreOpen(fileBytes, "alpha", "beta")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, locationdomain.KindRemote, pending[0].Descriptor.Kind)
	assert.Equal(t, pmandomain.StateNamesLoaded, reopened.State)

	require.NoError(t, Open(reopened, passwordsCiphertext))
	assert.Equal(t, pmandomain.StateOpen, reopened.State)

	password, err := GetEntityPassword(reopened, entityID, 0)
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

func TestAddGroupRejectsDuplicateName(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	_, err = AddGroup(db, "g")
	require.NoError(t, err)
	_, err = AddGroup(db, "g")
	assert.Error(t, err)
}

func TestDeleteGroupRejectsWhileReferenced(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	_, err = AddEntity(db, groupID, userID, "n", "secret", nil, nil)
	require.NoError(t, err)

	err = DeleteGroup(db, groupID)
	assert.Error(t, err)
}

// TestUpdateEntityEvictsOldestVersionAndCollectsOrphans checks that an
// interned password used only by an evicted version disappears from the
// passwords table once history exceeds the configured depth.
func TestUpdateEntityEvictsOldestVersionAndCollectsOrphans(t *testing.T) {
	options := testCreateOptions()
	options.HistoryDepth = 2
	db, err := Create(options, "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)

	entityID, err := AddEntity(db, groupID, userID, "n", "p1", nil, nil)
	require.NoError(t, err)
	require.NoError(t, UpdateEntity(db, entityID, "p2", nil, nil))
	require.NoError(t, UpdateEntity(db, entityID, "p3", nil, nil))

	_, err = GetEntityPassword(db, entityID, 0)
	require.NoError(t, err)

	ids := db.Passwords.IDs()
	for _, id := range ids {
		assert.NotEqual(t, "", id)
	}
	// p1 was evicted (depth=2 keeps p3,p2) and referenced nowhere else, so
	// its interned id must be gone.
	assert.Len(t, ids, 2)
}

func TestDeleteEntityCollectsOrphans(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	entityID, err := AddEntity(db, groupID, userID, "n", "secret", nil, nil)
	require.NoError(t, err)

	require.NoError(t, DeleteEntity(db, entityID))
	assert.Empty(t, db.Passwords.IDs())
	assert.Empty(t, db.Entities.IDs())
}

func TestSearchFindsEntityByName(t *testing.T) {
	db, err := Create(testCreateOptions(), "alpha", "beta")
	require.NoError(t, err)
	groupID, err := AddGroup(db, "g")
	require.NoError(t, err)
	userID, err := AddUser(db, "u")
	require.NoError(t, err)
	entityID, err := AddEntity(db, groupID, userID, "GitHub Account", "secret", nil, nil)
	require.NoError(t, err)

	result, err := Search(db, "git")
	require.NoError(t, err)
	require.Contains(t, result, groupID)
	assert.Contains(t, result[groupID], entityID)
}
