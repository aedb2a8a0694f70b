package serialization

import (
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

// DbBlockLink is the stored form of a BlockLink
type DbBlockLink struct {
	_                 struct{} `cbor:",toarray"`
	Height            uint64
	BlockHash         DbHash
	PreviousBlockHash DbHash
	ExecutionStatus   uint8
}

// BlockLinkToDbBlockLink converts a BlockLink to a DbBlockLink
func BlockLinkToDbBlockLink(blockLink *externalapi.BlockLink) *DbBlockLink {
	return &DbBlockLink{
		Height:            blockLink.Height,
		BlockHash:         DomainHashToDbHash(blockLink.BlockHash),
		PreviousBlockHash: DomainHashToDbHash(blockLink.PreviousBlockHash),
		ExecutionStatus:   uint8(blockLink.ExecutionStatus),
	}
}

// DbBlockLinkToBlockLink converts a DbBlockLink to a BlockLink
func DbBlockLinkToBlockLink(dbBlockLink *DbBlockLink) (*externalapi.BlockLink, error) {
	blockHash, err := DbHashToDomainHash(dbBlockLink.BlockHash)
	if err != nil {
		return nil, err
	}
	previousBlockHash, err := DbHashToDomainHash(dbBlockLink.PreviousBlockHash)
	if err != nil {
		return nil, err
	}
	status := externalapi.ExecutionStatus(dbBlockLink.ExecutionStatus)
	if status != externalapi.StatusNotExecuted && !status.IsTerminal() {
		return nil, errors.Errorf("unknown execution status %d", dbBlockLink.ExecutionStatus)
	}

	return &externalapi.BlockLink{
		Height:            dbBlockLink.Height,
		BlockHash:         blockHash,
		PreviousBlockHash: previousBlockHash,
		ExecutionStatus:   status,
	}, nil
}

// SerializeBlockLink serializes a BlockLink into bytes
func SerializeBlockLink(blockLink *externalapi.BlockLink) ([]byte, error) {
	return marshal(BlockLinkToDbBlockLink(blockLink))
}

// DeserializeBlockLink deserializes bytes into a BlockLink
func DeserializeBlockLink(blockLinkBytes []byte) (*externalapi.BlockLink, error) {
	dbBlockLink := &DbBlockLink{}
	err := unmarshal(blockLinkBytes, dbBlockLink)
	if err != nil {
		return nil, err
	}
	return DbBlockLinkToBlockLink(dbBlockLink)
}
