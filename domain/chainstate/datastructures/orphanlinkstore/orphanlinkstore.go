package orphanlinkstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

var bucketName = []byte("orphan-links")

type orphanKey struct {
	chainID   externalapi.ChainID
	blockHash externalapi.DomainHash
}

// orphanLinkStore keeps the link of every block that waits in a
// chain's not-linked map, until it is linked or dropped.
type orphanLinkStore struct {
	bucket model.DBBucket
	cache  *lru.Cache[orphanKey, *externalapi.BlockLink]
}

// New instantiates a new OrphanLinkStore
func New(cacheSize int) (model.OrphanLinkStore, error) {
	cache, err := lru.New[orphanKey, *externalapi.BlockLink](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating the orphan link cache")
	}
	return &orphanLinkStore{
		bucket: database.MakeBucket(bucketName),
		cache:  cache,
	}, nil
}

func (ols *orphanLinkStore) Stage(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	orphanLink *externalapi.BlockLink) {

	stagingShard := ols.stagingShard(stagingArea)
	key := orphanKey{chainID: chainID, blockHash: *orphanLink.BlockHash}
	stagingShard.toAdd[key] = orphanLink.Clone()
	delete(stagingShard.toDelete, key)
}

func (ols *orphanLinkStore) Delete(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockHash *externalapi.DomainHash) {

	stagingShard := ols.stagingShard(stagingArea)
	key := orphanKey{chainID: chainID, blockHash: *blockHash}
	delete(stagingShard.toAdd, key)
	stagingShard.toDelete[key] = struct{}{}
}

func (ols *orphanLinkStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ols.stagingShard(stagingArea).isStaged()
}

func (ols *orphanLinkStore) OrphanLink(dbContext model.DBReader, stagingArea *model.StagingArea,
	chainID externalapi.ChainID, blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error) {

	stagingShard := ols.stagingShard(stagingArea)
	key := orphanKey{chainID: chainID, blockHash: *blockHash}

	if _, ok := stagingShard.toDelete[key]; ok {
		return nil, errors.Wrapf(database.ErrNotFound,
			"orphan %s of chain %s was deleted", blockHash, chainID)
	}
	if orphanLink, ok := stagingShard.toAdd[key]; ok {
		return orphanLink.Clone(), nil
	}
	if orphanLink, ok := ols.cache.Get(key); ok {
		return orphanLink.Clone(), nil
	}

	orphanLinkBytes, err := dbContext.Get(ols.key(chainID, blockHash))
	if err != nil {
		return nil, err
	}
	orphanLink, err := serialization.DeserializeBlockLink(orphanLinkBytes)
	if err != nil {
		return nil, err
	}
	ols.cache.Add(key, orphanLink)
	return orphanLink.Clone(), nil
}

// OrphanLinks returns every committed orphan link of the given chain.
func (ols *orphanLinkStore) OrphanLinks(dbContext model.DBReader,
	chainID externalapi.ChainID) ([]*externalapi.BlockLink, error) {

	cursor, err := dbContext.Cursor(ols.bucket.Bucket(chainID.Bytes()))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var orphanLinks []*externalapi.BlockLink
	for ok := cursor.First(); ok; ok = cursor.Next() {
		orphanLinkBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		orphanLink, err := serialization.DeserializeBlockLink(orphanLinkBytes)
		if err != nil {
			return nil, err
		}
		orphanLinks = append(orphanLinks, orphanLink)
	}
	return orphanLinks, nil
}

func (ols *orphanLinkStore) key(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) model.DBKey {
	return ols.bucket.Bucket(chainID.Bytes()).Key(blockHash.ByteSlice())
}
