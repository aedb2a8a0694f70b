package chainstore

import (
	"github.com/kaspanet/chaind/domain/chainstate/database/serialization"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

type chainStagingShard struct {
	store *chainStore
	toAdd map[externalapi.ChainID]*externalapi.DomainChain
}

func (cs *chainStore) stagingShard(stagingArea *model.StagingArea) *chainStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDChain, func() model.StagingShard {
		return &chainStagingShard{
			store: cs,
			toAdd: make(map[externalapi.ChainID]*externalapi.DomainChain),
		}
	}).(*chainStagingShard)
}

func (css *chainStagingShard) Commit(dbTx model.DBTransaction) error {
	for chainID, chain := range css.toAdd {
		chainBytes, err := serialization.SerializeChain(chain)
		if err != nil {
			return err
		}
		err = dbTx.Put(css.store.key(chainID), chainBytes)
		if err != nil {
			return err
		}
	}
	return nil
}

func (css *chainStagingShard) UpdateCache() {
	for chainID, chain := range css.toAdd {
		css.store.cache.Add(chainID, chain)
	}
}

func (css *chainStagingShard) isStaged() bool {
	return len(css.toAdd) != 0
}
