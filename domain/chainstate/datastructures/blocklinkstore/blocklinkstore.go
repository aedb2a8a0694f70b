package blocklinkstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

var bucketName = []byte("block-links")

type blockLinkKey struct {
	chainID   externalapi.ChainID
	blockHash externalapi.DomainHash
}

// blockLinkStore represents a store of linked BlockLinks
type blockLinkStore struct {
	bucket model.DBBucket
	cache  *lru.Cache[blockLinkKey, *externalapi.BlockLink]
}

// New instantiates a new BlockLinkStore
func New(cacheSize int) (model.BlockLinkStore, error) {
	cache, err := lru.New[blockLinkKey, *externalapi.BlockLink](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating the block link cache")
	}
	return &blockLinkStore{
		bucket: database.MakeBucket(bucketName),
		cache:  cache,
	}, nil
}

// Stage stages the given blockLink
func (bls *blockLinkStore) Stage(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockLink *externalapi.BlockLink) {

	stagingShard := bls.stagingShard(stagingArea)
	key := blockLinkKey{chainID: chainID, blockHash: *blockLink.BlockHash}
	stagingShard.toAdd[key] = blockLink.Clone()
	delete(stagingShard.toDelete, key)
}

// Delete stages the removal of the link of the given block
func (bls *blockLinkStore) Delete(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockHash *externalapi.DomainHash) {

	stagingShard := bls.stagingShard(stagingArea)
	key := blockLinkKey{chainID: chainID, blockHash: *blockHash}
	delete(stagingShard.toAdd, key)
	stagingShard.toDelete[key] = struct{}{}
}

func (bls *blockLinkStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bls.stagingShard(stagingArea).isStaged()
}

// BlockLink gets the link of the given block
func (bls *blockLinkStore) BlockLink(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID, blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error) {

	stagingShard := bls.stagingShard(stagingArea)
	key := blockLinkKey{chainID: chainID, blockHash: *blockHash}

	if _, ok := stagingShard.toDelete[key]; ok {
		return nil, errors.Wrapf(database.ErrNotFound,
			"block link %s of chain %s was deleted", blockHash, chainID)
	}
	if blockLink, ok := stagingShard.toAdd[key]; ok {
		return blockLink.Clone(), nil
	}
	if blockLink, ok := bls.cache.Get(key); ok {
		return blockLink.Clone(), nil
	}

	blockLinkBytes, err := dbContext.Get(bls.key(chainID, blockHash))
	if err != nil {
		return nil, err
	}
	blockLink, err := serialization.DeserializeBlockLink(blockLinkBytes)
	if err != nil {
		return nil, err
	}
	bls.cache.Add(key, blockLink)
	return blockLink.Clone(), nil
}

// Has returns whether the given block is linked
func (bls *blockLinkStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID, blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bls.stagingShard(stagingArea)
	key := blockLinkKey{chainID: chainID, blockHash: *blockHash}

	if _, ok := stagingShard.toDelete[key]; ok {
		return false, nil
	}
	if _, ok := stagingShard.toAdd[key]; ok {
		return true, nil
	}
	if bls.cache.Contains(key) {
		return true, nil
	}

	return dbContext.Has(bls.key(chainID, blockHash))
}

// BlockLinks returns every committed link of the given chain, in
// block hash order.
func (bls *blockLinkStore) BlockLinks(dbContext model.DBReader,
	chainID externalapi.ChainID) ([]*externalapi.BlockLink, error) {

	cursor, err := dbContext.Cursor(bls.bucket.Bucket(chainID.Bytes()))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var blockLinks []*externalapi.BlockLink
	for ok := cursor.First(); ok; ok = cursor.Next() {
		blockLinkBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		blockLink, err := serialization.DeserializeBlockLink(blockLinkBytes)
		if err != nil {
			return nil, err
		}
		blockLinks = append(blockLinks, blockLink)
	}
	return blockLinks, nil
}

func (bls *blockLinkStore) key(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) model.DBKey {
	return bls.bucket.Bucket(chainID.Bytes()).Key(blockHash.ByteSlice())
}
