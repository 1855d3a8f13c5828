package commands

import (
	"context"

	"github.com/go-pman/pman/internal/app"
	ekvmdomain "github.com/go-pman/pman/internal/ekvm/domain"
	ekvmservice "github.com/go-pman/pman/internal/ekvm/service"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
	"github.com/go-pman/pman/internal/validation"
)

// parseProperties parses repeated "key=value" arguments into the map
// AddEntity/UpdateEntity expect.
func parseProperties(raw []string) (map[string]string, error) {
	properties := make(map[string]string, len(raw))
	for _, arg := range raw {
		key, value, err := validation.ParseProperty(arg)
		if err != nil {
			return nil, err
		}
		properties[key] = value
	}
	return properties, nil
}

// EntityFields is the set of flags entity add/update share.
type EntityFields struct {
	GroupID    uint32
	UserID     uint32
	Password   string
	URL        string
	Properties []string
}

// RunEntityAdd creates a new entity named name in the database at path.
func RunEntityAdd(ctx context.Context, container *app.Container, path, name string, fields EntityFields, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	properties, err := parseProperties(fields.Properties)
	if err != nil {
		return err
	}
	var url *string
	if fields.URL != "" {
		url = &fields.URL
	}

	var id uint32
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		var err error
		id, err = pmanservice.AddEntity(db, fields.GroupID, fields.UserID, name, fields.Password, url, properties)
		return err
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "entity %d created\n", id)
	return nil
}

// RunEntityUpdate prepends a new version to entityID's history.
func RunEntityUpdate(ctx context.Context, container *app.Container, path string, entityID uint32, fields EntityFields, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	properties, err := parseProperties(fields.Properties)
	if err != nil {
		return err
	}
	var url *string
	if fields.URL != "" {
		url = &fields.URL
	}

	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		return pmanservice.UpdateEntity(db, entityID, fields.Password, url, properties)
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "entity %d updated\n", entityID)
	return nil
}

// RunEntityList lists every entity belonging to groupID.
func RunEntityList(ctx context.Context, container *app.Container, path string, groupID uint32, jsonOutput bool, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var entities map[uint32]entityWithName
	err = withReadLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		raw, err := pmanservice.GetEntities(db, groupID)
		if err != nil {
			return err
		}
		entities = make(map[uint32]entityWithName, len(raw))
		for id, e := range raw {
			name, err := entityDisplayName(db, e.NameID)
			if err != nil {
				return err
			}
			entities[id] = entityWithName{ID: id, Name: name, Versions: len(e.History)}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(io.Writer, entities)
	}
	for id, e := range entities {
		outputText(io.Writer, "%d\t%s\t(%d versions)\n", id, e.Name, e.Versions)
	}
	return nil
}

// entityWithName is a display-friendly projection of an entity, its name
// already resolved out of the Names table for list/search output.
type entityWithName struct {
	ID       uint32
	Name     string
	Versions int
}

func entityDisplayName(db *pmandomain.Database, nameID uint32) (string, error) {
	value, err := ekvmservice.Get(db.Names, nameID, ekvmdomain.DecodeString)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// RunEntityRemove deletes entityID from the database at path.
func RunEntityRemove(ctx context.Context, container *app.Container, path string, entityID uint32, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		return pmanservice.DeleteEntity(db, entityID)
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "entity %d removed\n", entityID)
	return nil
}

// RunEntityHistory prints every retained password version of entityID,
// newest first.
func RunEntityHistory(ctx context.Context, container *app.Container, path string, entityID uint32, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var versions []string
	err = withReadLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		for version := 0; ; version++ {
			password, err := pmanservice.GetEntityPassword(db, entityID, version)
			if err != nil {
				break
			}
			versions = append(versions, password)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, password := range versions {
		outputText(io.Writer, "v%d\t%s\n", i, password)
	}
	return nil
}
