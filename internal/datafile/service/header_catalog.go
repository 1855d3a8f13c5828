package service

import (
	cryptodomain "github.com/go-pman/pman/internal/cryptoproc/domain"
	"github.com/go-pman/pman/internal/datafile/domain"
	ekvmdomain "github.com/go-pman/pman/internal/ekvm/domain"
	ekvmservice "github.com/go-pman/pman/internal/ekvm/service"
	pmanerrors "github.com/go-pman/pman/internal/errors"
	kdfdomain "github.com/go-pman/pman/internal/kdf/domain"
	locationdomain "github.com/go-pman/pman/internal/location/domain"
)

// BuildHeaderCatalog encodes catalog's seven fixed records into a fresh
// EKVM. processor is almost always an identity processor: the catalog lives
// inside the already-encrypted names region, so a second layer of per-value
// encryption buys nothing.
func BuildHeaderCatalog(catalog domain.HeaderCatalog, processor cryptodomain.Processor) (*ekvmservice.Map, error) {
	m := ekvmservice.New(processor)

	records := []struct {
		id    uint32
		value ekvmdomain.ByteValue
	}{
		{domain.HashAlgorithm1ID, ekvmdomain.RawBytes(catalog.HashParams1.ToBytes())},
		{domain.HashAlgorithm2ID, ekvmdomain.RawBytes(catalog.HashParams2.ToBytes())},
		{domain.EncryptionAlgorithm1ID, ekvmdomain.RawBytes([]byte{byte(catalog.EncryptionAlgorithm1)})},
		{domain.EncryptionAlgorithm2ID, ekvmdomain.RawBytes([]byte{byte(catalog.EncryptionAlgorithm2)})},
		{domain.NamesLocationID, ekvmdomain.RawBytes(catalog.NamesLocation.ToBytes())},
		{domain.PasswordsLocationID, ekvmdomain.RawBytes(catalog.PasswordsLocation.ToBytes())},
		{domain.HistoryDepthID, ekvmdomain.RawBytes([]byte{catalog.HistoryDepth})},
	}
	for _, rec := range records {
		if err := m.AddWithID(rec.id, rec.value); err != nil {
			return nil, pmanerrors.Wrapf(err, "header catalog: fixed id %d", rec.id)
		}
	}
	return m, nil
}

// ReadHeaderCatalog decodes the seven fixed records back out of m.
func ReadHeaderCatalog(m *ekvmservice.Map) (domain.HeaderCatalog, error) {
	var catalog domain.HeaderCatalog
	var err error

	if catalog.HashParams1, err = ekvmservice.Get(m, domain.HashAlgorithm1ID, kdfdomain.DecodeParams); err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: hash-algorithm-1")
	}
	if catalog.HashParams2, err = ekvmservice.Get(m, domain.HashAlgorithm2ID, kdfdomain.DecodeParams); err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: hash-algorithm-2")
	}
	alg1, err := ekvmservice.Get(m, domain.EncryptionAlgorithm1ID, decodeAlgorithm)
	if err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: encryption-algorithm-1")
	}
	catalog.EncryptionAlgorithm1 = alg1
	alg2, err := ekvmservice.Get(m, domain.EncryptionAlgorithm2ID, decodeAlgorithm)
	if err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: encryption-algorithm-2")
	}
	catalog.EncryptionAlgorithm2 = alg2
	if catalog.NamesLocation, err = ekvmservice.Get(m, domain.NamesLocationID, locationdomain.DecodeDescriptor); err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: names location")
	}
	if catalog.PasswordsLocation, err = ekvmservice.Get(m, domain.PasswordsLocationID, locationdomain.DecodeDescriptor); err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: passwords location")
	}
	depth, err := ekvmservice.Get(m, domain.HistoryDepthID, decodeUint8)
	if err != nil {
		return domain.HeaderCatalog{}, pmanerrors.Wrap(err, "header catalog: history depth")
	}
	catalog.HistoryDepth = depth

	return catalog, nil
}

func decodeAlgorithm(data []byte) (cryptodomain.Algorithm, error) {
	if len(data) != 1 {
		return 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "encryption algorithm descriptor: wrong size")
	}
	return cryptodomain.Algorithm(data[0]), nil
}

func decodeUint8(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "history depth: wrong size")
	}
	return data[0], nil
}
