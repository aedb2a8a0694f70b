package chainstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

var bucketName = []byte("chain")

// chainStore represents a store of DomainChains
type chainStore struct {
	bucket model.DBBucket
	cache  *lru.Cache[externalapi.ChainID, *externalapi.DomainChain]
}

// New instantiates a new ChainStore
func New(cacheSize int) (model.ChainStore, error) {
	cache, err := lru.New[externalapi.ChainID, *externalapi.DomainChain](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating the chain cache")
	}
	return &chainStore{
		bucket: database.MakeBucket(bucketName),
		cache:  cache,
	}, nil
}

// Stage stages the given chain. Later stages of the same chain
// within a staging area replace earlier ones.
func (cs *chainStore) Stage(stagingArea *model.StagingArea, chain *externalapi.DomainChain) {
	stagingShard := cs.stagingShard(stagingArea)
	stagingShard.toAdd[chain.ID] = chain.Clone()
}

func (cs *chainStore) IsStaged(stagingArea *model.StagingArea) bool {
	return cs.stagingShard(stagingArea).isStaged()
}

// Chain returns a copy of the chain with the given id
func (cs *chainStore) Chain(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID) (*externalapi.DomainChain, error) {

	stagingShard := cs.stagingShard(stagingArea)
	if chain, ok := stagingShard.toAdd[chainID]; ok {
		return chain.Clone(), nil
	}

	if chain, ok := cs.cache.Get(chainID); ok {
		return chain.Clone(), nil
	}

	chainBytes, err := dbContext.Get(cs.key(chainID))
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(database.ErrNotFound, "chain %s not found", chainID)
		}
		return nil, err
	}

	chain, err := serialization.DeserializeChain(chainBytes)
	if err != nil {
		return nil, err
	}
	cs.cache.Add(chainID, chain)
	return chain.Clone(), nil
}

// Has returns whether a chain with the given id exists
func (cs *chainStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID) (bool, error) {

	stagingShard := cs.stagingShard(stagingArea)
	if _, ok := stagingShard.toAdd[chainID]; ok {
		return true, nil
	}

	if cs.cache.Contains(chainID) {
		return true, nil
	}

	return dbContext.Has(cs.key(chainID))
}

func (cs *chainStore) key(chainID externalapi.ChainID) model.DBKey {
	return cs.bucket.Key(chainID.Bytes())
}
