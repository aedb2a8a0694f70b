package serialization

import (
	"bytes"
	"sort"

	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

// DbNotLinkedBlock is a single entry of a chain's not-linked map
type DbNotLinkedBlock struct {
	_           struct{} `cbor:",toarray"`
	ParentHash  DbHash
	PendingHash DbHash
}

// DbChain is the stored form of a DomainChain
type DbChain struct {
	_                           struct{} `cbor:",toarray"`
	ID                          uint32
	GenesisBlockHash            DbHash
	LongestChainHash            DbHash
	LongestChainHeight          uint64
	BestChainHash               DbHash
	BestChainHeight             uint64
	LastIrreversibleBlockHash   DbHash
	LastIrreversibleBlockHeight uint64
	NotLinkedBlocks             []DbNotLinkedBlock
}

// ChainToDbChain converts a DomainChain to a DbChain. Not-linked
// entries are sorted by parent hash so that the encoding is stable.
func ChainToDbChain(chain *externalapi.DomainChain) *DbChain {
	notLinkedBlocks := make([]DbNotLinkedBlock, 0, len(chain.NotLinkedBlocks))
	for parentHash, pendingHash := range chain.NotLinkedBlocks {
		parentHash := parentHash
		notLinkedBlocks = append(notLinkedBlocks, DbNotLinkedBlock{
			ParentHash:  DomainHashToDbHash(&parentHash),
			PendingHash: DomainHashToDbHash(pendingHash),
		})
	}
	sort.Slice(notLinkedBlocks, func(i, j int) bool {
		return bytes.Compare(notLinkedBlocks[i].ParentHash, notLinkedBlocks[j].ParentHash) < 0
	})

	return &DbChain{
		ID:                          uint32(chain.ID),
		GenesisBlockHash:            DomainHashToDbHash(chain.GenesisBlockHash),
		LongestChainHash:            DomainHashToDbHash(chain.LongestChainHash),
		LongestChainHeight:          chain.LongestChainHeight,
		BestChainHash:               DomainHashToDbHash(chain.BestChainHash),
		BestChainHeight:             chain.BestChainHeight,
		LastIrreversibleBlockHash:   DomainHashToDbHash(chain.LastIrreversibleBlockHash),
		LastIrreversibleBlockHeight: chain.LastIrreversibleBlockHeight,
		NotLinkedBlocks:             notLinkedBlocks,
	}
}

// DbChainToChain converts a DbChain to a DomainChain
func DbChainToChain(dbChain *DbChain) (*externalapi.DomainChain, error) {
	hashes, err := DbHashesToDomainHashes([]DbHash{
		dbChain.GenesisBlockHash,
		dbChain.LongestChainHash,
		dbChain.BestChainHash,
		dbChain.LastIrreversibleBlockHash,
	})
	if err != nil {
		return nil, err
	}

	notLinkedBlocks := make(map[externalapi.DomainHash]*externalapi.DomainHash, len(dbChain.NotLinkedBlocks))
	for _, dbNotLinkedBlock := range dbChain.NotLinkedBlocks {
		parentHash, err := DbHashToDomainHash(dbNotLinkedBlock.ParentHash)
		if err != nil {
			return nil, err
		}
		pendingHash, err := DbHashToDomainHash(dbNotLinkedBlock.PendingHash)
		if err != nil {
			return nil, err
		}
		if _, exists := notLinkedBlocks[*parentHash]; exists {
			return nil, errors.Errorf("duplicate not-linked parent %s", parentHash)
		}
		notLinkedBlocks[*parentHash] = pendingHash
	}

	return &externalapi.DomainChain{
		ID:                          externalapi.ChainID(dbChain.ID),
		GenesisBlockHash:            hashes[0],
		LongestChainHash:            hashes[1],
		LongestChainHeight:          dbChain.LongestChainHeight,
		BestChainHash:               hashes[2],
		BestChainHeight:             dbChain.BestChainHeight,
		LastIrreversibleBlockHash:   hashes[3],
		LastIrreversibleBlockHeight: dbChain.LastIrreversibleBlockHeight,
		NotLinkedBlocks:             notLinkedBlocks,
	}, nil
}

// DbHashesToDomainHashes converts a slice of DbHash to a slice of DomainHash
func DbHashesToDomainHashes(dbHashes []DbHash) ([]*externalapi.DomainHash, error) {
	domainHashes := make([]*externalapi.DomainHash, len(dbHashes))
	for i, dbHash := range dbHashes {
		var err error
		domainHashes[i], err = DbHashToDomainHash(dbHash)
		if err != nil {
			return nil, err
		}
	}
	return domainHashes, nil
}

// SerializeChain serializes a DomainChain into bytes
func SerializeChain(chain *externalapi.DomainChain) ([]byte, error) {
	return marshal(ChainToDbChain(chain))
}

// DeserializeChain deserializes bytes into a DomainChain
func DeserializeChain(chainBytes []byte) (*externalapi.DomainChain, error) {
	dbChain := &DbChain{}
	err := unmarshal(chainBytes, dbChain)
	if err != nil {
		return nil, err
	}
	return DbChainToChain(dbChain)
}
