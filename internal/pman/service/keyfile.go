package service

import (
	"context"

	"gocloud.dev/secrets"

	// Register the local-secrets and AWS KMS keeper drivers; the key file
	// is expected to be wrapped with one of these, selected by the
	// keeperURL scheme the caller configures (base64key://, awskms://, ...).
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/localsecrets"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// SealKeyFile wraps the second password's hash behind keeperURL, producing
// the bytes an optional "encrypted key file" companion holds instead of
// the caller typing the second password at every open.
func SealKeyFile(ctx context.Context, keeperURL string, passwordHash2 []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: opening key-file keeper")
	}
	defer keeper.Close()

	sealed, err := keeper.Encrypt(ctx, passwordHash2)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: sealing key file")
	}
	return sealed, nil
}

// OpenKeyFile is the inverse of SealKeyFile: it recovers the second
// password's hash from a previously sealed key file.
func OpenKeyFile(ctx context.Context, keeperURL string, sealed []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: opening key-file keeper")
	}
	defer keeper.Close()

	passwordHash2, err := keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: opening key file")
	}
	return passwordHash2, nil
}
