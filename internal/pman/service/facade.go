// Package service implements the Database Facade: a state machine plus the
// group/user/entity/search operations, the one place that composes
// cryptoproc, kdf, datafile, ekvm, entity, and location into an openable,
// mutable, savable database.
package service

import (
	"context"
	"crypto/sha256"
	"time"

	cryptoservice "github.com/go-pman/pman/internal/cryptoproc/service"
	datafileservice "github.com/go-pman/pman/internal/datafile/service"
	ekvmdomain "github.com/go-pman/pman/internal/ekvm/domain"
	ekvmservice "github.com/go-pman/pman/internal/ekvm/service"
	entitydomain "github.com/go-pman/pman/internal/entity/domain"
	entityservice "github.com/go-pman/pman/internal/entity/service"
	pmanerrors "github.com/go-pman/pman/internal/errors"
	kdfservice "github.com/go-pman/pman/internal/kdf/service"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
	pmandomain "github.com/go-pman/pman/internal/pman/domain"
)

// HashPassword reduces a caller-supplied password to the SHA-256 hash the
// KDF actually derives keys from, mirroring create_hash in the console
// driver this engine's CLI descends from.
func HashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

func requireWritable(db *pmandomain.Database) error {
	if db.ReadOnly {
		return pmanerrors.Wrap(pmanerrors.ErrUnsupported, "pman: database is read-only")
	}
	if db.State != pmandomain.StateOpen {
		return pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "pman: database not open (state %s)", db.State)
	}
	return nil
}

// Create builds a brand-new, already-open database: fresh Argon2 salts for
// both regions, empty entity/names/groups/users/passwords tables. This is
// the Fresh --create--> Open(read-write) transition.
func Create(options pmandomain.CreateOptions, password1, password2 string) (*pmandomain.Database, error) {
	params1, err := kdfservice.NewParams(options.Argon2Iterations, options.Argon2Parallelism, options.Argon2MemoryMiB)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: generating names-region salt")
	}
	params2, err := kdfservice.NewParams(options.Argon2Iterations, options.Argon2Parallelism, options.Argon2MemoryMiB)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "pman: generating passwords-region salt")
	}

	h1 := HashPassword(password1)
	h2 := HashPassword(password2)
	k1, k2 := kdfservice.DeriveKeys(h1, params1, h2, params2)
	identity := cryptoservice.IdentityProcessor{}

	return &pmandomain.Database{
		State:                pmandomain.StateOpen,
		HistoryDepth:         options.HistoryDepth,
		EncryptionAlgorithm1: options.EncryptionAlgorithm1,
		EncryptionAlgorithm2: options.EncryptionAlgorithm2,
		HashParams1:          params1,
		HashParams2:          params2,
		NamesLocation:        options.NamesLocation,
		PasswordsLocation:    options.PasswordsLocation,
		H1:                   h1,
		H2:                   h2,
		K1:                   k1,
		K2:                   k2,
		Entities:             ekvmservice.New(identity),
		Names:                ekvmservice.New(identity),
		Groups:               ekvmservice.New(identity),
		Users:                ekvmservice.New(identity),
		Passwords:            ekvmservice.New(identity),
		Dirty:                true,
	}, nil
}

// PreOpen runs the Prepared --pre_open--> NamesLoaded transition: it
// derives k1 from the clear-prefix Argon2 block and mirrored encryption
// algorithm (Open Question resolutions #5/#6), decrypts and parses the
// names region's five EKVMs in the fixed order Save writes them in
// (header, entities, names, groups, users), and derives k2 from the
// header's own hash-algorithm-2 block. If the passwords region is local,
// it is decrypted immediately and the database comes back already Open;
// if remote, PreOpen returns a single PendingFetch the caller resolves by
// calling Open with the fetched bytes.
func PreOpen(data []byte, password1, password2 string) (*pmandomain.Database, []pmandomain.PendingFetch, error) {
	params1, alg1, prefixLen, err := datafileservice.ReadClearPrefix(data)
	if err != nil {
		return nil, nil, err
	}

	h1 := HashPassword(password1)
	k1 := kdfservice.Derive(h1, params1)

	namesPlain, err := datafileservice.Load(data[prefixLen:], k1, alg1)
	if err != nil {
		return nil, nil, err
	}

	identity := cryptoservice.IdentityProcessor{}

	headerMap, offset, err := ekvmservice.Load(namesPlain, 0, identity)
	if err != nil {
		return nil, nil, pmanerrors.Wrap(err, "pman: parsing header catalog")
	}
	catalog, err := datafileservice.ReadHeaderCatalog(headerMap)
	if err != nil {
		return nil, nil, err
	}

	entitiesMap, offset, err := ekvmservice.Load(namesPlain, offset, identity)
	if err != nil {
		return nil, nil, pmanerrors.Wrap(err, "pman: parsing entities table")
	}
	namesMap, offset, err := ekvmservice.Load(namesPlain, offset, identity)
	if err != nil {
		return nil, nil, pmanerrors.Wrap(err, "pman: parsing names table")
	}
	groupsMap, offset, err := ekvmservice.Load(namesPlain, offset, identity)
	if err != nil {
		return nil, nil, pmanerrors.Wrap(err, "pman: parsing groups table")
	}
	usersMap, offset, err := ekvmservice.Load(namesPlain, offset, identity)
	if err != nil {
		return nil, nil, pmanerrors.Wrap(err, "pman: parsing users table")
	}

	h2 := HashPassword(password2)
	k2 := kdfservice.Derive(h2, catalog.HashParams2)

	db := &pmandomain.Database{
		State:                pmandomain.StateNamesLoaded,
		HistoryDepth:         catalog.HistoryDepth,
		EncryptionAlgorithm1: catalog.EncryptionAlgorithm1,
		EncryptionAlgorithm2: catalog.EncryptionAlgorithm2,
		HashParams1:          params1,
		HashParams2:          catalog.HashParams2,
		NamesLocation:        catalog.NamesLocation,
		PasswordsLocation:    catalog.PasswordsLocation,
		H1:                   h1,
		H2:                   h2,
		K1:                   k1,
		K2:                   k2,
		Entities:             entitiesMap,
		Names:                namesMap,
		Groups:               groupsMap,
		Users:                usersMap,
	}

	remainder := namesPlain[offset:]
	if catalog.PasswordsLocation.Kind != locationdomain.KindLocal {
		return db, []pmandomain.PendingFetch{{Descriptor: catalog.PasswordsLocation}}, nil
	}

	if err := openPasswords(db, remainder); err != nil {
		return nil, nil, err
	}
	return db, nil, nil
}

// Open runs the NamesLoaded --open--> Open transition for a database whose
// passwords region was remote: passwordsCipher is the blob the caller
// fetched from the location PreOpen reported as pending.
func Open(db *pmandomain.Database, passwordsCipher []byte) error {
	if db.State != pmandomain.StateNamesLoaded {
		return pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "pman: open called in state %s", db.State)
	}
	return openPasswords(db, passwordsCipher)
}

func openPasswords(db *pmandomain.Database, passwordsCipher []byte) error {
	passwordsPlain, err := datafileservice.LoadPasswords(passwordsCipher, len(passwordsCipher), db.K2, db.EncryptionAlgorithm2)
	if err != nil {
		return err
	}
	passwordsMap, _, err := ekvmservice.Load(passwordsPlain, 0, cryptoservice.IdentityProcessor{})
	if err != nil {
		return pmanerrors.Wrap(err, "pman: parsing passwords table")
	}
	db.Passwords = passwordsMap
	db.State = pmandomain.StateOpen
	return nil
}

// Save runs the Open --save--> Open transition: it serializes the five
// names-region EKVMs and the passwords EKVM in save order, encrypts both
// regions, and returns the file bytes to persist locally plus the
// passwords ciphertext a remote location's handler would upload. It does
// not itself rotate Argon2 salts — only RotateSalt does, as an explicit
// action before a second save, not an implicit one on every save.
func Save(db *pmandomain.Database) (fileBytes, passwordsCiphertext []byte, err error) {
	if db.ReadOnly {
		return nil, nil, pmanerrors.Wrap(pmanerrors.ErrUnsupported, "pman: database is read-only")
	}
	identity := cryptoservice.IdentityProcessor{}

	headerMap, err := datafileservice.BuildHeaderCatalog(db.Catalog(), identity)
	if err != nil {
		return nil, nil, err
	}

	var region1 []byte
	region1 = headerMap.Save(region1, nil)
	region1 = db.Entities.Save(region1, nil)
	region1 = db.Names.Save(region1, nil)
	region1 = db.Groups.Save(region1, nil)
	region1 = db.Users.Save(region1, nil)

	var region2 []byte
	region2 = db.Passwords.Save(region2, nil)

	result, err := datafileservice.Save(datafileservice.SaveInput{
		NamesPlain:      region1,
		PasswordsPlain:  region2,
		K1:              db.K1,
		Algorithm1:      db.EncryptionAlgorithm1,
		K2:              db.K2,
		Algorithm2:      db.EncryptionAlgorithm2,
		PasswordsRemote: db.PasswordsLocation.Kind != locationdomain.KindLocal,
	})
	if err != nil {
		return nil, nil, err
	}

	fileBytes = datafileservice.WriteClearPrefix(db.HashParams1, db.EncryptionAlgorithm1, result.FileBytes)
	db.Dirty = false
	return fileBytes, result.PasswordsCiphertext, nil
}

// SavePersist runs Save and uploads the results through the given
// handlers: namesHandler always receives fileBytes; passwordsHandler
// receives the passwords ciphertext only when the passwords region is
// remote. Either handler may be nil when its region's bytes are routed by
// the caller instead (e.g. a CLI writing fileBytes straight to the
// .pdbf path).
func SavePersist(ctx context.Context, db *pmandomain.Database, namesHandler, passwordsHandler locationdomain.Handler) error {
	fileBytes, passwordsCiphertext, err := Save(db)
	if err != nil {
		return err
	}
	if namesHandler != nil {
		if err := namesHandler.Upload(ctx, fileBytes); err != nil {
			return pmanerrors.Wrap(err, "pman: uploading names region")
		}
	}
	if db.PasswordsLocation.Kind != locationdomain.KindLocal && passwordsHandler != nil {
		if err := passwordsHandler.Upload(ctx, passwordsCiphertext); err != nil {
			return pmanerrors.Wrap(err, "pman: uploading passwords region")
		}
	}
	return nil
}

// RotateSalt re-derives k1 and k2 against freshly generated Argon2 salts
// (same cost parameters, new random salt each), so the next Save produces
// region ciphertexts that differ in every non-salt byte even if no entity
// data changed.
func RotateSalt(db *pmandomain.Database) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	params1, err := kdfservice.NewParams(db.HashParams1.Iterations, db.HashParams1.Parallelism, db.HashParams1.MemoryMiB)
	if err != nil {
		return pmanerrors.Wrap(err, "pman: rotating names-region salt")
	}
	params2, err := kdfservice.NewParams(db.HashParams2.Iterations, db.HashParams2.Parallelism, db.HashParams2.MemoryMiB)
	if err != nil {
		return pmanerrors.Wrap(err, "pman: rotating passwords-region salt")
	}
	db.HashParams1 = params1
	db.HashParams2 = params2
	db.K1 = kdfservice.Derive(db.H1, params1)
	db.K2 = kdfservice.Derive(db.H2, params2)
	db.Dirty = true
	return nil
}

// internString returns the id of an existing entry in m equal to value,
// deduplicating by content the way an interning table is meant to, adding
// a fresh entry only when no match exists.
func internString(m *ekvmservice.Map, value string) (uint32, error) {
	existing, err := ekvmservice.MGet(m, m.IDs(), ekvmdomain.DecodeString)
	if err != nil {
		return 0, err
	}
	for id, v := range existing {
		if string(v) == value {
			return id, nil
		}
	}
	return m.Add(ekvmdomain.String(value)), nil
}

func buildFields(db *pmandomain.Database, groupID, userID uint32, password string, url *string, properties map[string]string) (entitydomain.Fields, error) {
	passwordID, err := internString(db.Passwords, password)
	if err != nil {
		return entitydomain.Fields{}, err
	}

	var urlID *uint32
	if url != nil {
		id, err := internString(db.Names, *url)
		if err != nil {
			return entitydomain.Fields{}, err
		}
		urlID = &id
	}

	props := make(map[uint32]uint32, len(properties))
	for k, v := range properties {
		keyID, err := internString(db.Names, k)
		if err != nil {
			return entitydomain.Fields{}, err
		}
		valueID, err := internString(db.Passwords, v)
		if err != nil {
			return entitydomain.Fields{}, err
		}
		props[keyID] = valueID
	}

	return entitydomain.Fields{
		PasswordID: passwordID,
		GroupID:    groupID,
		UserID:     userID,
		URLID:      urlID,
		CreatedAt:  time.Now(),
		Properties: props,
	}, nil
}

// AddGroup creates a new group named name, rejecting an exact duplicate
// name as InvalidInput.
func AddGroup(db *pmandomain.Database, name string) (uint32, error) {
	if err := requireWritable(db); err != nil {
		return 0, err
	}
	if err := requireUniqueName(db.Groups, name, nil); err != nil {
		return 0, err
	}
	id := db.Groups.Add(ekvmdomain.String(name))
	db.Dirty = true
	return id, nil
}

// RenameGroup renames an existing group, rejecting a collision with
// another group's name.
func RenameGroup(db *pmandomain.Database, id uint32, name string) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	if !db.Groups.Contains(id) {
		return pmanerrors.Wrapf(pmanerrors.ErrNotFound, "group %d", id)
	}
	if err := requireUniqueName(db.Groups, name, &id); err != nil {
		return err
	}
	db.Groups.Set(id, ekvmdomain.String(name))
	db.Dirty = true
	return nil
}

// DeleteGroup removes group id, rejecting the deletion as InvalidInput if
// any entity still references it.
func DeleteGroup(db *pmandomain.Database, id uint32) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	if !db.Groups.Contains(id) {
		return pmanerrors.Wrapf(pmanerrors.ErrNotFound, "group %d", id)
	}
	entities, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return err
	}
	for _, e := range entities {
		if e.ContainsGroupID(id) {
			return pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "group %d is still referenced by an entity", id)
		}
	}
	db.Groups.Remove(id)
	db.Dirty = true
	return nil
}

// AddUser creates a new user named name, rejecting an exact duplicate name
// as InvalidInput.
func AddUser(db *pmandomain.Database, name string) (uint32, error) {
	if err := requireWritable(db); err != nil {
		return 0, err
	}
	if err := requireUniqueName(db.Users, name, nil); err != nil {
		return 0, err
	}
	id := db.Users.Add(ekvmdomain.String(name))
	db.Dirty = true
	return id, nil
}

// RemoveUser removes user id, rejecting the removal as InvalidInput if any
// entity still references it.
func RemoveUser(db *pmandomain.Database, id uint32) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	if !db.Users.Contains(id) {
		return pmanerrors.Wrapf(pmanerrors.ErrNotFound, "user %d", id)
	}
	entities, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return err
	}
	for _, e := range entities {
		if e.ContainsUserID(id) {
			return pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "user %d is still referenced by an entity", id)
		}
	}
	db.Users.Remove(id)
	db.Dirty = true
	return nil
}

func requireUniqueName(m *ekvmservice.Map, name string, except *uint32) error {
	existing, err := ekvmservice.MGet(m, m.IDs(), ekvmdomain.DecodeString)
	if err != nil {
		return err
	}
	for id, v := range existing {
		if except != nil && id == *except {
			continue
		}
		if string(v) == name {
			return pmanerrors.Wrapf(pmanerrors.ErrInvalidInput, "name %q already exists", name)
		}
	}
	return nil
}

// GetGroups lists every group, with EntitiesCount recomputed from the live
// entity index rather than a stored counter (§3's EXPANDED decision).
func GetGroups(db *pmandomain.Database) ([]entitydomain.Group, error) {
	names, err := ekvmservice.MGet(db.Groups, db.Groups.IDs(), ekvmdomain.DecodeString)
	if err != nil {
		return nil, err
	}
	entities, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint32]uint32, len(names))
	for _, e := range entities {
		counts[e.History[0].GroupID]++
	}

	groups := make([]entitydomain.Group, 0, len(names))
	for id, name := range names {
		groups = append(groups, entitydomain.Group{ID: id, Name: string(name), EntitiesCount: counts[id]})
	}
	return groups, nil
}

// GetUsers lists every user.
func GetUsers(db *pmandomain.Database) ([]entitydomain.User, error) {
	names, err := ekvmservice.MGet(db.Users, db.Users.IDs(), ekvmdomain.DecodeString)
	if err != nil {
		return nil, err
	}
	users := make([]entitydomain.User, 0, len(names))
	for id, name := range names {
		users = append(users, entitydomain.User{ID: id, Name: string(name)})
	}
	return users, nil
}

// GetEntities lists every entity whose live version belongs to groupID.
func GetEntities(db *pmandomain.Database, groupID uint32) (map[uint32]entitydomain.Entity, error) {
	entities, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]entitydomain.Entity)
	for id, e := range entities {
		if e.History[0].GroupID == groupID {
			out[id] = e
		}
	}
	return out, nil
}

// AddEntity interns name/password/url/properties and creates a new entity
// with a single history version.
func AddEntity(db *pmandomain.Database, groupID, userID uint32, name, password string, url *string, properties map[string]string) (uint32, error) {
	if err := requireWritable(db); err != nil {
		return 0, err
	}
	if !db.Groups.Contains(groupID) {
		return 0, pmanerrors.Wrapf(pmanerrors.ErrNotFound, "group %d", groupID)
	}
	if !db.Users.Contains(userID) {
		return 0, pmanerrors.Wrapf(pmanerrors.ErrNotFound, "user %d", userID)
	}

	nameID, err := internString(db.Names, name)
	if err != nil {
		return 0, err
	}
	fields, err := buildFields(db, groupID, userID, password, url, properties)
	if err != nil {
		return 0, err
	}

	entity := entitydomain.Entity{NameID: nameID, History: []entitydomain.Fields{fields}}
	id := db.Entities.Add(entity)
	db.Dirty = true
	return id, nil
}

// UpdateEntity prepends a fresh version to entityID's history, carrying
// forward its current group/user references, and evicts the oldest
// version once history exceeds the database's configured depth,
// collecting any names/passwords ids the eviction orphaned.
func UpdateEntity(db *pmandomain.Database, entityID uint32, password string, url *string, properties map[string]string) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	entity, err := ekvmservice.Get(db.Entities, entityID, entitydomain.DecodeEntity)
	if err != nil {
		return err
	}

	live := entity.History[0]
	fields, err := buildFields(db, live.GroupID, live.UserID, password, url, properties)
	if err != nil {
		return err
	}

	orphanNames, orphanPasswords := entityservice.Update(&entity, db.HistoryDepth, fields)
	db.Entities.Set(entityID, entity)
	if len(orphanNames) > 0 || len(orphanPasswords) > 0 {
		// Interned strings are shared across entities: keep any id another entity still references.
		all, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
		if err != nil {
			return err
		}
		activeNames := make([][]uint32, 0, len(all))
		activePasswords := make([][]uint32, 0, len(all))
		for _, e := range all {
			activeNames = append(activeNames, e.CollectNamesIDs())
			activePasswords = append(activePasswords, e.CollectPasswordsIDs())
		}
		orphanNames = entityservice.Orphans(orphanNames, activeNames...)
		orphanPasswords = entityservice.Orphans(orphanPasswords, activePasswords...)
	}
	for _, id := range orphanNames {
		db.Names.Remove(id)
	}
	for _, id := range orphanPasswords {
		db.Passwords.Remove(id)
	}
	db.Dirty = true
	return nil
}

// DeleteEntity removes entityID and collects every names/passwords id it
// referenced that no surviving entity still references (cross-region GC).
func DeleteEntity(db *pmandomain.Database, entityID uint32) error {
	if err := requireWritable(db); err != nil {
		return err
	}
	entity, err := ekvmservice.Get(db.Entities, entityID, entitydomain.DecodeEntity)
	if err != nil {
		return err
	}

	namesIDs := entity.CollectNamesIDs()
	passwordsIDs := entity.CollectPasswordsIDs()
	db.Entities.Remove(entityID)

	remaining, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return err
	}
	activeNames := make([][]uint32, 0, len(remaining))
	activePasswords := make([][]uint32, 0, len(remaining))
	for _, e := range remaining {
		activeNames = append(activeNames, e.CollectNamesIDs())
		activePasswords = append(activePasswords, e.CollectPasswordsIDs())
	}

	for _, id := range entityservice.Orphans(namesIDs, activeNames...) {
		db.Names.Remove(id)
	}
	for _, id := range entityservice.Orphans(passwordsIDs, activePasswords...) {
		db.Passwords.Remove(id)
	}
	db.Dirty = true
	return nil
}

// GetEntityPassword resolves the interned password string for entityID at
// the given history version (0 = live).
func GetEntityPassword(db *pmandomain.Database, entityID uint32, version int) (string, error) {
	entity, err := ekvmservice.Get(db.Entities, entityID, entitydomain.DecodeEntity)
	if err != nil {
		return "", err
	}
	if version < 0 || version > entity.MaxVersion() {
		return "", pmanerrors.Wrapf(pmanerrors.ErrNotFound, "entity %d version %d", entityID, version)
	}
	value, err := ekvmservice.Get(db.Passwords, entity.History[version].PasswordID, ekvmdomain.DecodeString)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Search finds every entity whose interned name, URL, or property key
// contains substr (case-insensitive), grouped by group id then entity id.
func Search(db *pmandomain.Database, substr string) (map[uint32]map[uint32]entitydomain.Entity, error) {
	names, err := ekvmservice.MGet(db.Names, db.Names.IDs(), ekvmdomain.DecodeString)
	if err != nil {
		return nil, err
	}
	entities, err := ekvmservice.MGet(db.Entities, db.Entities.IDs(), entitydomain.DecodeEntity)
	if err != nil {
		return nil, err
	}

	namesAsStrings := make(map[uint32]string, len(names))
	for id, v := range names {
		namesAsStrings[id] = string(v)
	}

	index := entityservice.BuildReverseIndex(entities)
	return entityservice.Search(namesAsStrings, entities, index, substr), nil
}
