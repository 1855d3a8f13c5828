// Package validation provides argument validation rules: non-blank and
// no-whitespace checks, a "key=value" property parser, and a base64 check.
// The pman commands call only ParseProperty. See DESIGN.md for why this
// drops the jellydator/validation library the HTTP DTO layer it replaces
// used to lean on.
package validation

import (
	"strings"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// WrapValidationError wraps a validation failure as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return pmanerrors.Wrap(pmanerrors.ErrInvalidInput, err.Error())
}

// NotBlank rejects a string that is empty after trimming whitespace. No
// pman command calls it.
func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return WrapValidationError(pmanerrors.Wrap(pmanerrors.ErrInvalidInput, field+" must not be blank"))
	}
	return nil
}

// NoWhitespace rejects a string with leading or trailing whitespace.
func NoWhitespace(field, value string) error {
	if value != strings.TrimSpace(value) {
		return WrapValidationError(pmanerrors.Wrap(pmanerrors.ErrInvalidInput, field+" must not have leading or trailing whitespace"))
	}
	return nil
}

// ParseProperty splits a CLI "--property key=value" argument, rejecting a
// missing "=" or an empty key.
func ParseProperty(arg string) (string, string, error) {
	key, value, found := strings.Cut(arg, "=")
	if !found {
		return "", "", WrapValidationError(pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "property %q must be in key=value form", arg))
	}
	if strings.TrimSpace(key) == "" {
		return "", "", WrapValidationError(pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "property %q has an empty key", arg))
	}
	return key, value, nil
}
