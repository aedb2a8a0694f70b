package chainindexstore

import (
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

type chainIndexStagingShard struct {
	store *chainIndexStore
	toAdd map[heightKey]*externalapi.DomainHash
}

func (cis *chainIndexStore) stagingShard(stagingArea *model.StagingArea) *chainIndexStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDChainIndex, func() model.StagingShard {
		return &chainIndexStagingShard{
			store: cis,
			toAdd: make(map[heightKey]*externalapi.DomainHash),
		}
	}).(*chainIndexStagingShard)
}

func (ciss *chainIndexStagingShard) Commit(dbTx model.DBTransaction) error {
	for key, blockHash := range ciss.toAdd {
		err := dbTx.Put(ciss.store.key(key.chainID, key.height), serialization.SerializeHash(blockHash))
		if err != nil {
			return err
		}
	}
	return nil
}

func (ciss *chainIndexStagingShard) UpdateCache() {
	for key, blockHash := range ciss.toAdd {
		ciss.store.cache.Add(key, blockHash)
	}
}

func (ciss *chainIndexStagingShard) isStaged() bool {
	return len(ciss.toAdd) != 0
}
