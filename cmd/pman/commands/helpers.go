// Package commands implements one file per pman subcommand, following the
// teacher's cmd/app/commands layout: each Run function draws its
// dependencies from the shared app.Container passed to it, and terminal
// I/O flows through an IOTuple so tests can inject it.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob/fileblob"

	"github.com/go-pman/pman/internal/app"
	"github.com/go-pman/pman/internal/config"
	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	pmanerrors "github.com/go-pman/pman/internal/errors"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
	locationservice "github.com/go-pman/pman/internal/location/service"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// IOTuple bundles the reader/writer a command prompts through, the way the
// teacher's commands package threads stdin/stdout so tests can substitute
// a bytes.Buffer for either side.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// StdIO returns the IOTuple main.go passes to every command in normal use.
func StdIO() IOTuple {
	return IOTuple{Reader: os.Stdin, Writer: os.Stdout}
}

func outputText(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

func outputJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// promptPasswords reads the two database passwords through io, never as
// plaintext CLI flags.
func promptPasswords(io IOTuple) (password1, password2 string, err error) {
	prompter := config.NewPasswordPrompter(io.Writer, io.Reader)
	password1, err = prompter.Prompt("Password 1 (names region): ")
	if err != nil {
		return "", "", err
	}
	password2, err = prompter.Prompt("Password 2 (passwords region): ")
	if err != nil {
		return "", "", err
	}
	return password1, password2, nil
}

// readLocalFile reads path through a fileblob bucket opened on its parent
// directory, the concrete on-disk collaborator behind the Local location
// variant's "the caller already holds the bytes" contract.
func readLocalFile(ctx context.Context, path string) ([]byte, error) {
	bucket, err := fileblob.OpenBucket(filepath.Dir(path), nil)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "commands: opening database directory")
	}
	defer bucket.Close()
	data, err := bucket.ReadAll(ctx, filepath.Base(path))
	if err != nil {
		return nil, pmanerrors.Wrap(pmanerrors.ErrIO, err.Error())
	}
	return data, nil
}

// writeLocalFile is the upload counterpart to readLocalFile, creating the
// parent directory if this is the first save of a freshly created database.
func writeLocalFile(ctx context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return pmanerrors.Wrap(err, "commands: creating database directory")
	}
	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return pmanerrors.Wrap(err, "commands: opening database directory")
	}
	defer bucket.Close()
	if err := bucket.WriteAll(ctx, filepath.Base(path), data, nil); err != nil {
		return pmanerrors.Wrap(pmanerrors.ErrIO, err.Error())
	}
	return nil
}

// parseLocationFlag turns a --names-location/--passwords-location value
// ("local", or "", or a qs3://bucket/path?region=...&access-key=...&secret-key=..."
// URL) into a Descriptor, sealing any QS3 credentials behind sealKey (the
// caller's H1, stable across RotateSalt calls unlike K1) so they never ride
// in the header catalog unencrypted a second time over.
func parseLocationFlag(value string, sealKey []byte) (locationdomain.Descriptor, error) {
	if value == "" || value == "local" {
		return locationdomain.Descriptor{Kind: locationdomain.KindLocal}, nil
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme != "qs3" || u.Host == "" {
		return locationdomain.Descriptor{}, pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "location %q must be \"local\" or a qs3://bucket/path URL", value)
	}
	q := u.Query()
	creds := locationservice.QS3Credentials{
		Bucket:    u.Host,
		Region:    q.Get("region"),
		Endpoint:  q.Get("endpoint"),
		AccessKey: q.Get("access-key"),
		SecretKey: q.Get("secret-key"),
	}
	sealed, err := locationservice.SealCredentials(sealKey, locationservice.EncodeQS3Credentials(creds))
	if err != nil {
		return locationdomain.Descriptor{}, err
	}
	return locationdomain.Descriptor{
		Kind:        locationdomain.KindRemote,
		Path:        strings.TrimPrefix(u.Path, "/"),
		Credentials: sealed,
	}, nil
}

// parseAlgorithmFlag maps the --encryption-algorithm-{1,2} flag strings to
// the cryptoproc algorithm tags.
func parseAlgorithmFlag(value string) (cryptodomain.Algorithm, error) {
	switch value {
	case "", "aes":
		return cryptodomain.AlgorithmAES, nil
	case "chacha20":
		return cryptodomain.AlgorithmChaCha20, nil
	default:
		return 0, pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "algorithm %q must be \"aes\" or \"chacha20\"", value)
	}
}

// fetchPendingPasswords resolves a PreOpen PendingFetch against a remote
// QS3 location, unsealing its credentials with db.H1.
func fetchPendingPasswords(ctx context.Context, db *pmandomain.Database, pending pmandomain.PendingFetch) ([]byte, error) {
	plainCreds, err := locationservice.OpenCredentials(db.H1, pending.Descriptor.Credentials)
	if err != nil {
		return nil, err
	}
	creds, err := locationservice.DecodeQS3Credentials(plainCreds)
	if err != nil {
		return nil, err
	}
	handler, err := locationservice.NewQS3Handler(ctx, pending.Descriptor.Path, creds)
	if err != nil {
		return nil, err
	}
	defer handler.Close()
	return handler.Download(ctx)
}

// passwordsHandlerFor builds the Handler saveDatabasePath uploads a remote
// passwords region through, or nil for a local (inline) one.
func passwordsHandlerFor(ctx context.Context, db *pmandomain.Database) (locationdomain.Handler, error) {
	if db.PasswordsLocation.Kind == locationdomain.KindLocal {
		return nil, nil
	}
	plainCreds, err := locationservice.OpenCredentials(db.H1, db.PasswordsLocation.Credentials)
	if err != nil {
		return nil, err
	}
	creds, err := locationservice.DecodeQS3Credentials(plainCreds)
	if err != nil {
		return nil, err
	}
	return locationservice.NewQS3Handler(ctx, db.PasswordsLocation.Path, creds)
}

// openDatabasePath reads path from disk, runs PreOpen, and resolves any
// pending remote passwords fetch, returning a fully Open database.
func openDatabasePath(ctx context.Context, path, password1, password2 string) (*pmandomain.Database, error) {
	data, err := readLocalFile(ctx, path)
	if err != nil {
		return nil, err
	}
	db, pending, err := pmanservice.PreOpen(data, password1, password2)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return db, nil
	}
	cipher, err := fetchPendingPasswords(ctx, db, pending[0])
	if err != nil {
		return nil, err
	}
	if err := pmanservice.Open(db, cipher); err != nil {
		return nil, err
	}
	return db, nil
}

// saveDatabasePath persists db back to path, uploading its passwords
// region through a remote handler when applicable.
func saveDatabasePath(ctx context.Context, path string, db *pmandomain.Database) error {
	fileBytes, passwordsCiphertext, err := pmanservice.Save(db)
	if err != nil {
		return err
	}
	if err := writeLocalFile(ctx, path, fileBytes); err != nil {
		return err
	}
	if db.PasswordsLocation.Kind != locationdomain.KindLocal {
		handler, err := passwordsHandlerFor(ctx, db)
		if err != nil {
			return err
		}
		if err := handler.Upload(ctx, passwordsCiphertext); err != nil {
			return pmanerrors.Wrap(err, "commands: uploading passwords region")
		}
	}
	return nil
}

// withWriteLock opens path for a read-write operation, runs fn, and saves
// the result back under the container's single-writer lock.
func withWriteLock(ctx context.Context, container *app.Container, path, password1, password2 string, fn func(db *pmandomain.Database) error) error {
	return container.Locks().WithWriteLock(ctx, path, func(ctx context.Context) error {
		db, err := openDatabasePath(ctx, path, password1, password2)
		if err != nil {
			return err
		}
		if err := fn(db); err != nil {
			return err
		}
		return saveDatabasePath(ctx, path, db)
	})
}

// withReadLock opens path for a read-only operation (no save afterward).
func withReadLock(ctx context.Context, container *app.Container, path, password1, password2 string, fn func(db *pmandomain.Database) error) error {
	return container.Locks().WithReadLock(ctx, path, func(ctx context.Context) error {
		db, err := openDatabasePath(ctx, path, password1, password2)
		if err != nil {
			return err
		}
		return fn(db)
	})
}
