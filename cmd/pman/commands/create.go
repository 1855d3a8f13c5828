package commands

import (
	"context"
	"log/slog"

	"github.com/go-pman/pman/internal/app"
	pmanerrors "github.com/go-pman/pman/internal/errors"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// CreateOptions is the set of flags the create command accepts, parsed by
// main.go out of the cli.Command and handed here untyped-flag-free.
type CreateOptions struct {
	Path                 string
	HistoryDepth         uint8
	EncryptionAlgorithm1 string
	EncryptionAlgorithm2 string
	NamesLocation        string
	PasswordsLocation    string
	Argon2Iterations     uint8
	Argon2Parallelism    uint8
	Argon2MemoryMiB      uint16
}

// RunCreate builds a brand-new database at opts.Path, prompting for both
// passwords, and writes it to disk.
func RunCreate(ctx context.Context, container *app.Container, opts CreateOptions, io IOTuple) error {
	logger := container.Logger()

	password1, password2, err := promptPasswords(io)
	if err != nil {
		return err
	}

	alg1, err := parseAlgorithmFlag(opts.EncryptionAlgorithm1)
	if err != nil {
		return err
	}
	alg2, err := parseAlgorithmFlag(opts.EncryptionAlgorithm2)
	if err != nil {
		return err
	}

	h1 := pmanservice.HashPassword(password1)
	namesLocation, err := parseLocationFlag(opts.NamesLocation, h1)
	if err != nil {
		return err
	}
	passwordsLocation, err := parseLocationFlag(opts.PasswordsLocation, h1)
	if err != nil {
		return err
	}

	createOptions := pmandomain.CreateOptions{
		HistoryDepth:         opts.HistoryDepth,
		EncryptionAlgorithm1: alg1,
		EncryptionAlgorithm2: alg2,
		NamesLocation:        namesLocation,
		PasswordsLocation:    passwordsLocation,
		Argon2Iterations:     opts.Argon2Iterations,
		Argon2Parallelism:    opts.Argon2Parallelism,
		Argon2MemoryMiB:      opts.Argon2MemoryMiB,
	}

	db, err := pmanservice.Create(createOptions, password1, password2)
	if err != nil {
		return pmanerrors.Wrap(err, "commands: creating database")
	}

	if err := container.Locks().WithWriteLock(ctx, opts.Path, func(ctx context.Context) error {
		return saveDatabasePath(ctx, opts.Path, db)
	}); err != nil {
		return err
	}

	logger.Info("database created", slog.String("path", opts.Path))
	outputText(io.Writer, "created %s\n", opts.Path)
	return nil
}
