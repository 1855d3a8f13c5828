package commands

import (
	"context"

	"github.com/go-pman/pman/internal/app"
	entitydomain "github.com/go-pman/pman/internal/entity/domain"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// RunGroupAdd creates a new group named name in the database at path.
func RunGroupAdd(ctx context.Context, container *app.Container, path, name string, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var id uint32
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		var err error
		id, err = pmanservice.AddGroup(db, name)
		return err
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "group %d created\n", id)
	return nil
}

// RunGroupList lists every group in the database at path.
func RunGroupList(ctx context.Context, container *app.Container, path string, jsonOutput bool, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var groups []entitydomain.Group
	err = withReadLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		var err error
		groups, err = pmanservice.GetGroups(db)
		return err
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(io.Writer, groups)
	}
	for _, g := range groups {
		outputText(io.Writer, "%d\t%s\t(%d entities)\n", g.ID, g.Name, g.EntitiesCount)
	}
	return nil
}

// RunGroupRemove deletes group id from the database at path.
func RunGroupRemove(ctx context.Context, container *app.Container, path string, id uint32, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		return pmanservice.DeleteGroup(db, id)
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "group %d removed\n", id)
	return nil
}
