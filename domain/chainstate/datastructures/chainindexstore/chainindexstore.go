package chainindexstore

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

var bucketName = []byte("chain-index")

type heightKey struct {
	chainID externalapi.ChainID
	height  uint64
}

// chainIndexStore maps every irreversible height of a chain to the
// hash of its canonical block
type chainIndexStore struct {
	bucket model.DBBucket
	cache  *lru.Cache[heightKey, *externalapi.DomainHash]
}

// New instantiates a new ChainIndexStore
func New(cacheSize int) (model.ChainIndexStore, error) {
	cache, err := lru.New[heightKey, *externalapi.DomainHash](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating the chain index cache")
	}
	return &chainIndexStore{
		bucket: database.MakeBucket(bucketName),
		cache:  cache,
	}, nil
}

func (cis *chainIndexStore) Stage(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	height uint64, blockHash *externalapi.DomainHash) {

	stagingShard := cis.stagingShard(stagingArea)
	blockHashCopy := *blockHash
	stagingShard.toAdd[heightKey{chainID: chainID, height: height}] = &blockHashCopy
}

func (cis *chainIndexStore) IsStaged(stagingArea *model.StagingArea) bool {
	return cis.stagingShard(stagingArea).isStaged()
}

// BlockHashAtHeight returns the canonical block hash of the given height
func (cis *chainIndexStore) BlockHashAtHeight(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID, height uint64) (*externalapi.DomainHash, error) {

	stagingShard := cis.stagingShard(stagingArea)
	key := heightKey{chainID: chainID, height: height}

	if blockHash, ok := stagingShard.toAdd[key]; ok {
		return copyHash(blockHash), nil
	}

	if blockHash, ok := cis.cache.Get(key); ok {
		return copyHash(blockHash), nil
	}

	blockHashBytes, err := dbContext.Get(cis.key(chainID, height))
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(database.ErrNotFound,
				"chain %s has no index entry at height %d", chainID, height)
		}
		return nil, err
	}

	blockHash, err := serialization.DeserializeHash(blockHashBytes)
	if err != nil {
		return nil, err
	}
	cis.cache.Add(key, blockHash)
	return copyHash(blockHash), nil
}

func copyHash(blockHash *externalapi.DomainHash) *externalapi.DomainHash {
	blockHashCopy := *blockHash
	return &blockHashCopy
}

func (cis *chainIndexStore) key(chainID externalapi.ChainID, height uint64) model.DBKey {
	return cis.bucket.Bucket(chainID.Bytes()).Key(heightAsKeySuffix(height))
}

// heightAsKeySuffix serializes height in big-endian so that the
// database keeps the entries of a chain in height order.
func heightAsKeySuffix(height uint64) []byte {
	var keyBytes [8]byte
	binary.BigEndian.PutUint64(keyBytes[:], height)
	return keyBytes[:]
}
