package irreversibilitymanager

import (
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/ruleerrors"
	"github.com/kaspanet/chaind/infrastructure/logger"
	"github.com/pkg/errors"
)

type irreversibilityManager struct {
	databaseContext model.DBReader

	chainStore      model.ChainStore
	blockLinkStore  model.BlockLinkStore
	chainIndexStore model.ChainIndexStore
}

// New instantiates a new IrreversibilityManager
func New(
	databaseContext model.DBReader,
	chainStore model.ChainStore,
	blockLinkStore model.BlockLinkStore,
	chainIndexStore model.ChainIndexStore) model.IrreversibilityManager {

	return &irreversibilityManager{
		databaseContext: databaseContext,
		chainStore:      chainStore,
		blockLinkStore:  blockLinkStore,
		chainIndexStore: chainIndexStore,
	}
}

// AdvanceIrreversibleBlock marks the given block as the last
// irreversible block of the chain and indexes every block between it
// and the previous last irreversible block by height.
func (im *irreversibilityManager) AdvanceIrreversibleBlock(stagingArea *model.StagingArea,
	chainID externalapi.ChainID, blockHash *externalapi.DomainHash) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "AdvanceIrreversibleBlock")
	defer onEnd()

	chain, err := im.chainStore.Chain(im.databaseContext, stagingArea, chainID)
	if err != nil {
		return err
	}

	irreversibleLink, err := im.blockLinkStore.BlockLink(im.databaseContext, stagingArea, chainID, blockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return errors.Wrapf(ruleerrors.ErrIrreversibleBlockNotOnLongestChain,
				"block %s is not linked in chain %s", blockHash, chainID)
		}
		return err
	}

	if irreversibleLink.Height <= chain.LastIrreversibleBlockHeight {
		return errors.Wrapf(ruleerrors.ErrIrreversibleHeightNotIncreasing,
			"block %s is at height %d while the last irreversible block %s is at height %d",
			blockHash, irreversibleLink.Height, chain.LastIrreversibleBlockHash, chain.LastIrreversibleBlockHeight)
	}

	isOnLongestChain, err := im.isOnLongestChain(stagingArea, chain, irreversibleLink)
	if err != nil {
		return err
	}
	if !isOnLongestChain {
		return errors.Wrapf(ruleerrors.ErrIrreversibleBlockNotOnLongestChain,
			"block %s is not an ancestor of the longest chain tip %s", blockHash, chain.LongestChainHash)
	}

	err = im.indexBlocksDownToLastIrreversible(stagingArea, chain, irreversibleLink)
	if err != nil {
		return err
	}

	log.Debugf("Last irreversible block of chain %s moved from %s@%d to %s@%d", chainID,
		chain.LastIrreversibleBlockHash, chain.LastIrreversibleBlockHeight,
		irreversibleLink.BlockHash, irreversibleLink.Height)
	chain.LastIrreversibleBlockHash = irreversibleLink.BlockHash
	chain.LastIrreversibleBlockHeight = irreversibleLink.Height
	im.chainStore.Stage(stagingArea, chain)
	return nil
}

func (im *irreversibilityManager) isOnLongestChain(stagingArea *model.StagingArea,
	chain *externalapi.DomainChain, blockLink *externalapi.BlockLink) (bool, error) {

	if blockLink.Height > chain.LongestChainHeight {
		return false, nil
	}

	current, err := im.blockLinkStore.BlockLink(im.databaseContext, stagingArea, chain.ID, chain.LongestChainHash)
	if err != nil {
		return false, err
	}
	for current.Height > blockLink.Height {
		current, err = im.blockLinkStore.BlockLink(im.databaseContext, stagingArea, chain.ID, current.PreviousBlockHash)
		if err != nil {
			return false, errors.Wrapf(err, "failed walking back from the longest chain tip %s",
				chain.LongestChainHash)
		}
	}
	return current.BlockHash.Equal(blockLink.BlockHash), nil
}

// indexBlocksDownToLastIrreversible stages a height index entry for
// irreversibleLink and each of its ancestors above the current last
// irreversible block. The walk must end on that block.
func (im *irreversibilityManager) indexBlocksDownToLastIrreversible(stagingArea *model.StagingArea,
	chain *externalapi.DomainChain, irreversibleLink *externalapi.BlockLink) error {

	current := irreversibleLink
	for current.Height > chain.LastIrreversibleBlockHeight {
		log.Tracef("Indexing block %s at height %d of chain %s", current.BlockHash, current.Height, chain.ID)
		im.chainIndexStore.Stage(stagingArea, chain.ID, current.Height, current.BlockHash)

		previous, err := im.blockLinkStore.BlockLink(im.databaseContext, stagingArea, chain.ID,
			current.PreviousBlockHash)
		if err != nil {
			return errors.Wrapf(err, "failed loading the parent of block %s", current.BlockHash)
		}
		current = previous
	}

	if !current.BlockHash.Equal(chain.LastIrreversibleBlockHash) {
		return errors.Wrapf(ruleerrors.ErrIrreversibleBlockNotOnLongestChain,
			"block %s does not descend from the last irreversible block %s",
			irreversibleLink.BlockHash, chain.LastIrreversibleBlockHash)
	}
	return nil
}
