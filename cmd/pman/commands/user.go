package commands

import (
	"context"

	"github.com/go-pman/pman/internal/app"
	entitydomain "github.com/go-pman/pman/internal/entity/domain"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// RunUserAdd creates a new user named name in the database at path.
func RunUserAdd(ctx context.Context, container *app.Container, path, name string, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var id uint32
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		var err error
		id, err = pmanservice.AddUser(db, name)
		return err
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "user %d created\n", id)
	return nil
}

// RunUserList lists every user in the database at path.
func RunUserList(ctx context.Context, container *app.Container, path string, jsonOutput bool, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	var users []entitydomain.User
	err = withReadLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		var err error
		users, err = pmanservice.GetUsers(db)
		return err
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(io.Writer, users)
	}
	for _, u := range users {
		outputText(io.Writer, "%d\t%s\n", u.ID, u.Name)
	}
	return nil
}

// RunUserRemove deletes user id from the database at path.
func RunUserRemove(ctx context.Context, container *app.Container, path string, id uint32, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		return pmanservice.RemoveUser(db, id)
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "user %d removed\n", id)
	return nil
}
