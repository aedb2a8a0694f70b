package blockattacher

import (
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/infrastructure/logger"
	"github.com/pkg/errors"
)

// blockAttacher links incoming blocks to their parents, parks blocks
// whose parent is missing, and moves the longest chain pointer
type blockAttacher struct {
	databaseContext model.DBReader

	chainStore      model.ChainStore
	blockLinkStore  model.BlockLinkStore
	orphanLinkStore model.OrphanLinkStore
}

// New instantiates a new BlockAttacher
func New(
	databaseContext model.DBReader,
	chainStore model.ChainStore,
	blockLinkStore model.BlockLinkStore,
	orphanLinkStore model.OrphanLinkStore) model.BlockAttacher {

	return &blockAttacher{
		databaseContext: databaseContext,
		chainStore:      chainStore,
		blockLinkStore:  blockLinkStore,
		orphanLinkStore: orphanLinkStore,
	}
}

// AttachBlock links blockLink into the chain with the given id, or
// parks it if its parent is not linked yet. Once linked, every parked
// descendant waiting for it is linked as well. The longest chain pointer
// moves only if the last linked block is strictly higher than the
// current longest chain tip.
func (ba *blockAttacher) AttachBlock(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockLink *externalapi.BlockLink) (*externalapi.AttachResult, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "AttachBlock")
	defer onEnd()

	chain, err := ba.chainStore.Chain(ba.databaseContext, stagingArea, chainID)
	if err != nil {
		return nil, err
	}

	result := &externalapi.AttachResult{}

	isLinked, err := ba.blockLinkStore.Has(ba.databaseContext, stagingArea, chainID, blockLink.BlockHash)
	if err != nil {
		return nil, err
	}
	if isLinked {
		log.Debugf("Block %s is already linked in chain %s", blockLink.BlockHash, chainID)
		result.Linked = true
		return result, nil
	}

	isParentLinked, err := ba.blockLinkStore.Has(ba.databaseContext, stagingArea, chainID, blockLink.PreviousBlockHash)
	if err != nil {
		return nil, err
	}
	if !isParentLinked {
		ba.parkBlock(stagingArea, chain, blockLink)
		ba.chainStore.Stage(stagingArea, chain)
		result.NotLinked = true
		return result, nil
	}

	log.Tracef("Linking block %s to its parent %s", blockLink.BlockHash, blockLink.PreviousBlockHash)
	ba.blockLinkStore.Stage(stagingArea, chainID, blockLink)
	result.Linked = true

	lastLinked, err := ba.linkPendingDescendants(stagingArea, chain, blockLink)
	if err != nil {
		return nil, err
	}
	if !lastLinked.BlockHash.Equal(blockLink.BlockHash) {
		result.CascadeLinked = true
	}

	if lastLinked.Height > chain.LongestChainHeight {
		log.Debugf("Longest chain of chain %s moved from %s@%d to %s@%d", chainID,
			chain.LongestChainHash, chain.LongestChainHeight, lastLinked.BlockHash, lastLinked.Height)
		chain.LongestChainHash = lastLinked.BlockHash
		chain.LongestChainHeight = lastLinked.Height
		result.LongestChainAdvanced = true
	}

	ba.chainStore.Stage(stagingArea, chain)
	return result, nil
}

// parkBlock records blockLink as the pending child of its missing
// parent. A different block that was already pending for the same
// parent is dropped.
func (ba *blockAttacher) parkBlock(stagingArea *model.StagingArea, chain *externalapi.DomainChain,
	blockLink *externalapi.BlockLink) {

	parentHash := *blockLink.PreviousBlockHash
	replacedHash, ok := chain.NotLinkedBlocks[parentHash]
	if ok && !replacedHash.Equal(blockLink.BlockHash) {
		log.Debugf("Block %s replaces %s as the pending child of %s in chain %s",
			blockLink.BlockHash, replacedHash, &parentHash, chain.ID)
		ba.orphanLinkStore.Delete(stagingArea, chain.ID, replacedHash)
	}

	log.Debugf("Parking block %s of chain %s until %s is linked", blockLink.BlockHash, chain.ID, &parentHash)
	blockHash := *blockLink.BlockHash
	chain.NotLinkedBlocks[parentHash] = &blockHash
	ba.orphanLinkStore.Stage(stagingArea, chain.ID, blockLink)
}

// linkPendingDescendants links, one generation at a time, the parked
// block waiting for the most recently linked block. It returns the
// last block it linked, or linkedBlock itself if nothing was waiting.
func (ba *blockAttacher) linkPendingDescendants(stagingArea *model.StagingArea, chain *externalapi.DomainChain,
	linkedBlock *externalapi.BlockLink) (*externalapi.BlockLink, error) {

	lastLinked := linkedBlock
	for {
		pendingHash, ok := chain.NotLinkedBlocks[*lastLinked.BlockHash]
		if !ok {
			return lastLinked, nil
		}
		delete(chain.NotLinkedBlocks, *lastLinked.BlockHash)

		pendingLink, err := ba.orphanLinkStore.OrphanLink(ba.databaseContext, stagingArea, chain.ID, pendingHash)
		if err != nil {
			return nil, errors.Wrapf(err, "failed loading the parked link of block %s", pendingHash)
		}

		ba.orphanLinkStore.Delete(stagingArea, chain.ID, pendingHash)

		// A stored link is never replaced, so its execution status survives
		existingLink, err := ba.blockLinkStore.BlockLink(ba.databaseContext, stagingArea, chain.ID, pendingHash)
		if err == nil {
			log.Debugf("Parked block %s is already linked in chain %s", pendingHash, chain.ID)
			lastLinked = existingLink
			continue
		}
		if !database.IsNotFoundError(err) {
			return nil, err
		}

		log.Tracef("Linking parked block %s to its parent %s", pendingLink.BlockHash, lastLinked.BlockHash)
		ba.blockLinkStore.Stage(stagingArea, chain.ID, pendingLink)
		lastLinked = pendingLink
	}
}
