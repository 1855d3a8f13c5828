package service

import (
	"strings"

	"github.com/go-pman/pman/internal/entity/domain"
)

// ReverseIndex maps a names-region id back to every entity id (keyed by
// entity id) that refers to it, so a name match can be turned into an
// entity list without rescanning every entity's history.
type ReverseIndex map[uint32]map[uint32]struct{}

// BuildReverseIndex indexes every names id each entity refers to.
func BuildReverseIndex(entities map[uint32]domain.Entity) ReverseIndex {
	index := make(ReverseIndex)
	for entityID, e := range entities {
		for _, id := range e.CollectNamesIDs() {
			if index[id] == nil {
				index[id] = make(map[uint32]struct{})
			}
			index[id][entityID] = struct{}{}
		}
	}
	return index
}

// Search scans names for a case-insensitive match of substr, then uses
// index to resolve each match back to the entities referencing it,
// grouped by group id then entity id.
func Search(names map[uint32]string, entities map[uint32]domain.Entity, index ReverseIndex, substr string) map[uint32]map[uint32]domain.Entity {
	result := make(map[uint32]map[uint32]domain.Entity)
	needle := strings.ToLower(substr)
	for nameID, name := range names {
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		for entityID := range index[nameID] {
			e, ok := entities[entityID]
			if !ok {
				continue
			}
			groupID := e.History[0].GroupID
			if result[groupID] == nil {
				result[groupID] = make(map[uint32]domain.Entity)
			}
			result[groupID][entityID] = e
		}
	}
	return result
}
