package orphanlinkstore

import (
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

type orphanLinkStagingShard struct {
	store    *orphanLinkStore
	toAdd    map[orphanKey]*externalapi.BlockLink
	toDelete map[orphanKey]struct{}
}

func (ols *orphanLinkStore) stagingShard(stagingArea *model.StagingArea) *orphanLinkStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDOrphanLink, func() model.StagingShard {
		return &orphanLinkStagingShard{
			store:    ols,
			toAdd:    make(map[orphanKey]*externalapi.BlockLink),
			toDelete: make(map[orphanKey]struct{}),
		}
	}).(*orphanLinkStagingShard)
}

func (olss *orphanLinkStagingShard) Commit(dbTx model.DBTransaction) error {
	for key, orphanLink := range olss.toAdd {
		orphanLinkBytes, err := serialization.SerializeBlockLink(orphanLink)
		if err != nil {
			return err
		}
		err = dbTx.Put(olss.store.key(key.chainID, orphanLink.BlockHash), orphanLinkBytes)
		if err != nil {
			return err
		}
	}

	for key := range olss.toDelete {
		blockHash := key.blockHash
		err := dbTx.Delete(olss.store.key(key.chainID, &blockHash))
		if err != nil {
			return err
		}
	}

	return nil
}

func (olss *orphanLinkStagingShard) UpdateCache() {
	for key, orphanLink := range olss.toAdd {
		olss.store.cache.Add(key, orphanLink)
	}
	for key := range olss.toDelete {
		olss.store.cache.Remove(key)
	}
}

func (olss *orphanLinkStagingShard) isStaged() bool {
	return len(olss.toAdd) != 0 || len(olss.toDelete) != 0
}
