package serialization

import (
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

// DbHash is the stored form of a DomainHash
type DbHash []byte

// DomainHashToDbHash converts a DomainHash to a DbHash
func DomainHashToDbHash(domainHash *externalapi.DomainHash) DbHash {
	return domainHash.ByteSlice()
}

// DbHashToDomainHash converts a DbHash to a DomainHash
func DbHashToDomainHash(dbHash DbHash) (*externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(dbHash)
}

// SerializeHash serializes a hash into bytes
func SerializeHash(hash *externalapi.DomainHash) []byte {
	return hash.ByteSlice()
}

// DeserializeHash deserializes bytes into a hash
func DeserializeHash(hashBytes []byte) (*externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}
