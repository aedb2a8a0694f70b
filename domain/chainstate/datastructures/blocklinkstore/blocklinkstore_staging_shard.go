package blocklinkstore

import (
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

type blockLinkStagingShard struct {
	store    *blockLinkStore
	toAdd    map[blockLinkKey]*externalapi.BlockLink
	toDelete map[blockLinkKey]struct{}
}

func (bls *blockLinkStore) stagingShard(stagingArea *model.StagingArea) *blockLinkStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockLink, func() model.StagingShard {
		return &blockLinkStagingShard{
			store:    bls,
			toAdd:    make(map[blockLinkKey]*externalapi.BlockLink),
			toDelete: make(map[blockLinkKey]struct{}),
		}
	}).(*blockLinkStagingShard)
}

func (blss *blockLinkStagingShard) Commit(dbTx model.DBTransaction) error {
	for key, blockLink := range blss.toAdd {
		blockLinkBytes, err := serialization.SerializeBlockLink(blockLink)
		if err != nil {
			return err
		}
		blockHash := key.blockHash
		err = dbTx.Put(blss.store.key(key.chainID, &blockHash), blockLinkBytes)
		if err != nil {
			return err
		}
	}

	for key := range blss.toDelete {
		blockHash := key.blockHash
		err := dbTx.Delete(blss.store.key(key.chainID, &blockHash))
		if err != nil {
			return err
		}
	}

	return nil
}

func (blss *blockLinkStagingShard) UpdateCache() {
	for key, blockLink := range blss.toAdd {
		blss.store.cache.Add(key, blockLink)
	}
	for key := range blss.toDelete {
		blss.store.cache.Remove(key)
	}
}

func (blss *blockLinkStagingShard) isStaged() bool {
	return len(blss.toAdd) != 0 || len(blss.toDelete) != 0
}
