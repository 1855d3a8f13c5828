// Package domain models the two-region file envelope: the header's fixed
// IDs and the parsed form of its catalog.
package domain

import (
	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	kdfdomain "github.com/go-pman/pman/internal/kdf/domain"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
)

// Fixed header IDs, reserved below ekvm's firstID (100). IDs 1-6 are the
// six rows named in the external interface table; 7 is this module's
// addition carrying the passwords region's independent Argon2 block (see
// SPEC_FULL.md's Open Question resolution #5 — the header table names only
// one hash-algorithm descriptor, but two independent derivations are
// required).
const (
	HashAlgorithm1ID       uint32 = 1
	EncryptionAlgorithm1ID uint32 = 2
	EncryptionAlgorithm2ID uint32 = 3
	NamesLocationID        uint32 = 4
	PasswordsLocationID    uint32 = 5
	HistoryDepthID         uint32 = 6
	HashAlgorithm2ID       uint32 = 7
)

// HeaderCatalog is the decoded form of the header's seven fixed records.
type HeaderCatalog struct {
	HashParams1          kdfdomain.Params
	HashParams2          kdfdomain.Params
	EncryptionAlgorithm1 cryptodomain.Algorithm
	EncryptionAlgorithm2 cryptodomain.Algorithm
	NamesLocation        locationdomain.Descriptor
	PasswordsLocation    locationdomain.Descriptor
	HistoryDepth         uint8
}
