package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pman/pman/internal/entity/domain"
)

func TestSearchFindsCaseInsensitiveSubstring(t *testing.T) {
	names := map[uint32]string{
		1: "GitHub Account",
		2: "Gitlab Account",
		3: "Unrelated Entry",
	}
	entities := map[uint32]domain.Entity{
		100: {NameID: 1, History: []domain.Fields{{GroupID: 10}}},
		101: {NameID: 2, History: []domain.Fields{{GroupID: 10}}},
		102: {NameID: 3, History: []domain.Fields{{GroupID: 11}}},
	}
	index := BuildReverseIndex(entities)

	result := Search(names, entities, index, "git")

	require := assert.New(t)
	require.Len(result, 1)
	require.Contains(result[10], uint32(100))
	require.Contains(result[10], uint32(101))
	require.NotContains(result, uint32(11))
}

func TestSearchNoMatches(t *testing.T) {
	names := map[uint32]string{1: "Example"}
	entities := map[uint32]domain.Entity{100: {NameID: 1, History: []domain.Fields{{GroupID: 1}}}}
	index := BuildReverseIndex(entities)

	result := Search(names, entities, index, "nonexistent")
	assert.Empty(t, result)
}

func TestBuildReverseIndexIncludesPropertyKeysAndURL(t *testing.T) {
	urlID := uint32(5)
	entities := map[uint32]domain.Entity{
		1: {NameID: 10, History: []domain.Fields{{
			GroupID:    1,
			URLID:      &urlID,
			Properties: map[uint32]uint32{20: 200},
		}}},
	}
	index := BuildReverseIndex(entities)

	assert.Contains(t, index[10], uint32(1))
	assert.Contains(t, index[5], uint32(1))
	assert.Contains(t, index[20], uint32(1))
}
