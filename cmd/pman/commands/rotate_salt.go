package commands

import (
	"context"

	"github.com/go-pman/pman/internal/app"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// RunRotateSalt forces fresh Argon2 salts on the next save of the database
// at path.
func RunRotateSalt(ctx context.Context, container *app.Container, path string, io IOTuple) error {
	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}
	err = withWriteLock(ctx, container, path, password1, password2, func(db *pmandomain.Database) error {
		return pmanservice.RotateSalt(db)
	})
	if err != nil {
		return err
	}
	outputText(io.Writer, "salts rotated for %s\n", path)
	return nil
}
