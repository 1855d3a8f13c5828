package validation

import (
	"encoding/base64"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// Base64 rejects a non-empty string that is not valid standard base64; an
// empty string passes. No pman command calls it.
func Base64(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(value); err != nil {
		return WrapValidationError(pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "%s must be valid base64", field))
	}
	return nil
}
