package commands

import (
	"context"

	"github.com/go-pman/pman/internal/app"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// RunSearch finds every entity whose interned name, URL, or property key
// contains substr, grouped by group id then entity id.
func RunSearch(ctx context.Context, container *app.Container, path, substr string, jsonOutput bool, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}

	var results map[uint32]map[uint32]entityWithName
	err = withReadLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		matches, err := pmanservice.Search(db, substr)
		if err != nil {
			return err
		}
		results = make(map[uint32]map[uint32]entityWithName, len(matches))
		for groupID, byEntity := range matches {
			results[groupID] = make(map[uint32]entityWithName, len(byEntity))
			for entityID, e := range byEntity {
				name, err := entityDisplayName(db, e.NameID)
				if err != nil {
					return err
				}
				results[groupID][entityID] = entityWithName{ID: entityID, Name: name, Versions: len(e.History)}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(io.Writer, results)
	}
	for groupID, byEntity := range results {
		for entityID, e := range byEntity {
			outputText(io.Writer, "group=%d\tentity=%d\t%s\n", groupID, entityID, e.Name)
		}
	}
	return nil
}
