package bestchainmanager

import (
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/ruleerrors"
	"github.com/pkg/errors"
)

type bestChainManager struct {
	databaseContext model.DBReader
	chainStore      model.ChainStore
}

// New instantiates a new BestChainManager
func New(databaseContext model.DBReader, chainStore model.ChainStore) model.BestChainManager {
	return &bestChainManager{
		databaseContext: databaseContext,
		chainStore:      chainStore,
	}
}

// AdvanceBestChain points the best chain of the given chain at the
// given block. The block is not required to be linked.
func (bcm *bestChainManager) AdvanceBestChain(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	height uint64, blockHash *externalapi.DomainHash) error {

	log.Tracef("AdvanceBestChain start")
	defer log.Tracef("AdvanceBestChain end")

	chain, err := bcm.chainStore.Chain(bcm.databaseContext, stagingArea, chainID)
	if err != nil {
		return err
	}

	if chain.BestChainHeight == height && chain.BestChainHash.Equal(blockHash) {
		return errors.Wrapf(ruleerrors.ErrBestChainAlreadySet,
			"best chain of chain %s already is %s@%d", chainID, blockHash, height)
	}

	log.Debugf("Best chain of chain %s moved from %s@%d to %s@%d", chainID,
		chain.BestChainHash, chain.BestChainHeight, blockHash, height)
	bestChainHash := *blockHash
	chain.BestChainHash = &bestChainHash
	chain.BestChainHeight = height
	bcm.chainStore.Stage(stagingArea, chain)
	return nil
}
