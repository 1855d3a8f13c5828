// Package service implements entity version history, cross-region orphan
// collection, and substring search over the names interning table.
package service

import "github.com/go-pman/pman/internal/entity/domain"

// Update prepends newFields to entity's history as its new live version,
// then enforces history length <= depth by evicting the oldest retained
// version (history is newest-first, so the oldest is the last element
// after the prepend). If a version is evicted, Update returns the names-
// and passwords-region ids that version referenced which are no longer
// referenced by any surviving version — the caller removes these from the
// corresponding interning EKVM. entity.NameID is never returned here: it
// is owned by the entity itself, not any one version.
func Update(entity *domain.Entity, depth uint8, newFields domain.Fields) (orphanNamesIDs, orphanPasswordsIDs []uint32) {
	entity.History = append([]domain.Fields{newFields}, entity.History...)
	if len(entity.History) <= int(depth) {
		return nil, nil
	}

	oldest := entity.History[len(entity.History)-1]
	entity.History = entity.History[:len(entity.History)-1]

	deletedNames := make(map[uint32]struct{})
	oldest.CollectNamesIDs(deletedNames)
	deletedPasswords := make(map[uint32]struct{})
	oldest.CollectPasswordsIDs(deletedPasswords)

	activeNames := make(map[uint32]struct{})
	activePasswords := make(map[uint32]struct{})
	activeNames[entity.NameID] = struct{}{}
	for _, f := range entity.History {
		f.CollectNamesIDs(activeNames)
		f.CollectPasswordsIDs(activePasswords)
	}

	return unreferenced(deletedNames, activeNames), unreferenced(deletedPasswords, activePasswords)
}

func unreferenced(deleted, active map[uint32]struct{}) []uint32 {
	var out []uint32
	for id := range deleted {
		if _, stillActive := active[id]; !stillActive {
			out = append(out, id)
		}
	}
	return out
}
