// Package domain models the open-database state machine: the in-memory
// Database a caller holds between pre_open/open/save calls, and the
// options a fresh database is created with.
package domain

import (
	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	datafiledomain "github.com/go-pman/pman/internal/datafile/domain"
	ekvmservice "github.com/go-pman/pman/internal/ekvm/service"
	kdfdomain "github.com/go-pman/pman/internal/kdf/domain"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
)

// State is this database's position in the lifecycle described in spec
// §4.4: Fresh (nothing loaded yet) -> Prepared (raw bytes handed in,
// nothing parsed) -> NamesLoaded (region-1 decrypted and parsed, region-2
// still pending if remote) -> Open (fully usable).
type State uint8

const (
	StateFresh State = iota
	StatePrepared
	StateNamesLoaded
	StateOpen
)

// String renders State for logging and error messages.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StatePrepared:
		return "prepared"
	case StateNamesLoaded:
		return "names-loaded"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// PendingFetch is a remote blob PreOpen could not resolve itself — the
// caller downloads it (or already has it cached) and hands the bytes to
// Open.
type PendingFetch struct {
	// Descriptor is the location the caller must fetch from.
	Descriptor locationdomain.Descriptor
}

// CreateOptions configures a fresh database. Argon2 salts are generated
// internally from crypto/rand; callers only choose cost parameters.
type CreateOptions struct {
	HistoryDepth         uint8
	EncryptionAlgorithm1 cryptodomain.Algorithm
	EncryptionAlgorithm2 cryptodomain.Algorithm
	NamesLocation        locationdomain.Descriptor
	PasswordsLocation    locationdomain.Descriptor
	Argon2Iterations     uint8
	Argon2Parallelism    uint8
	Argon2MemoryMiB      uint16
}

// Database is the full in-memory state of one database, from the moment
// its keys are known through every open-state mutation up to the next
// save. Every EKVM here is keyed independently: Entities by entity id,
// Names by name/url/property-key id, Groups and Users each by their own
// independent id space.
type Database struct {
	ID    uint64
	State State

	HistoryDepth         uint8
	EncryptionAlgorithm1 cryptodomain.Algorithm
	EncryptionAlgorithm2 cryptodomain.Algorithm
	HashParams1          kdfdomain.Params
	HashParams2          kdfdomain.Params
	NamesLocation        locationdomain.Descriptor
	PasswordsLocation    locationdomain.Descriptor

	// H1, H2 are the caller's two SHA-256 password hashes, retained for the
	// lifetime of the open database so RotateSalt can re-derive K1/K2
	// against fresh Argon2 salts without asking the caller to type their
	// passwords again.
	H1 []byte
	H2 []byte

	K1 []byte
	K2 []byte

	Entities *ekvmservice.Map
	Names    *ekvmservice.Map
	Groups   *ekvmservice.Map
	Users    *ekvmservice.Map
	Passwords *ekvmservice.Map

	// ReadOnly marks a database opened through the foreign-format adapter
	// (the .kdbx suffix) or any other source the facade decides cannot be
	// saved back.
	ReadOnly bool

	// Dirty tracks whether any mutation happened since the last Save.
	Dirty bool
}

// Catalog projects the fields a HeaderCatalog needs out of Database, for
// handing to datafile.BuildHeaderCatalog at save time.
func (d *Database) Catalog() datafiledomain.HeaderCatalog {
	return datafiledomain.HeaderCatalog{
		HashParams1:          d.HashParams1,
		HashParams2:          d.HashParams2,
		EncryptionAlgorithm1: d.EncryptionAlgorithm1,
		EncryptionAlgorithm2: d.EncryptionAlgorithm2,
		NamesLocation:        d.NamesLocation,
		PasswordsLocation:    d.PasswordsLocation,
		HistoryDepth:         d.HistoryDepth,
	}
}
