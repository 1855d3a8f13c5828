package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pman/pman/internal/entity/domain"
)

func fieldsWithPassword(passwordID uint32) domain.Fields {
	return domain.Fields{PasswordID: passwordID, Properties: map[uint32]uint32{}}
}

func TestUpdateDoesNotEvictUnderDepth(t *testing.T) {
	entity := domain.Entity{NameID: 1, History: []domain.Fields{fieldsWithPassword(1)}}

	namesOrphans, passwordsOrphans := Update(&entity, 3, fieldsWithPassword(2))
	require.Nil(t, namesOrphans)
	require.Nil(t, passwordsOrphans)
	assert.Len(t, entity.History, 2)

	namesOrphans, passwordsOrphans = Update(&entity, 3, fieldsWithPassword(3))
	require.Nil(t, namesOrphans)
	require.Nil(t, passwordsOrphans)
	assert.Len(t, entity.History, 3)
}

// TestUpdateEvictsTrueOldest exercises the scenario where five versions are
// created against a history depth of 3: p5, p4, p3 must survive and p1, p2
// must be collected, not the Rust original's off-by-one that stranded p2.
func TestUpdateEvictsTrueOldest(t *testing.T) {
	entity := domain.Entity{NameID: 1, History: []domain.Fields{fieldsWithPassword(1)}}

	_, orphans2 := Update(&entity, 3, fieldsWithPassword(2))
	assert.Empty(t, orphans2)
	_, orphans3 := Update(&entity, 3, fieldsWithPassword(3))
	assert.Empty(t, orphans3)

	_, orphans4 := Update(&entity, 3, fieldsWithPassword(4))
	assert.ElementsMatch(t, []uint32{1}, orphans4)
	assert.Len(t, entity.History, 3)

	_, orphans5 := Update(&entity, 3, fieldsWithPassword(5))
	assert.ElementsMatch(t, []uint32{2}, orphans5)

	require.Len(t, entity.History, 3)
	var survivors []uint32
	for _, f := range entity.History {
		survivors = append(survivors, f.PasswordID)
	}
	assert.ElementsMatch(t, []uint32{3, 4, 5}, survivors)
}

func TestUpdateKeepsIDsStillReferencedByASurvivor(t *testing.T) {
	entity := domain.Entity{
		NameID:  1,
		History: []domain.Fields{{PasswordID: 1, Properties: map[uint32]uint32{100: 200}}},
	}

	// p2 reuses property key 100 (e.g. the same property name edited in
	// place), so evicting p1 must not orphan it.
	namesOrphans, passwordsOrphans := Update(&entity, 1, domain.Fields{PasswordID: 2, Properties: map[uint32]uint32{100: 201}})
	assert.Empty(t, namesOrphans)
	assert.ElementsMatch(t, []uint32{1}, passwordsOrphans)
}
