package forkpruner

import (
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/infrastructure/logger"
)

type forkPruner struct {
	databaseContext model.DBReader

	chainStore      model.ChainStore
	blockLinkStore  model.BlockLinkStore
	orphanLinkStore model.OrphanLinkStore
	chainIndexStore model.ChainIndexStore
}

// New instantiates a new ForkPruner
func New(
	databaseContext model.DBReader,
	chainStore model.ChainStore,
	blockLinkStore model.BlockLinkStore,
	orphanLinkStore model.OrphanLinkStore,
	chainIndexStore model.ChainIndexStore) model.ForkPruner {

	return &forkPruner{
		databaseContext: databaseContext,
		chainStore:      chainStore,
		blockLinkStore:  blockLinkStore,
		orphanLinkStore: orphanLinkStore,
		chainIndexStore: chainIndexStore,
	}
}

// PruneStaleForks removes the links of blocks at or below the last
// irreversible height that are not part of the irreversible chain,
// the forks built on top of them, and parked blocks that can no longer be linked to it. It returns
// the number of removed records.
func (fp *forkPruner) PruneStaleForks(stagingArea *model.StagingArea, chainID externalapi.ChainID) (int, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "PruneStaleForks")
	defer onEnd()

	chain, err := fp.chainStore.Chain(fp.databaseContext, stagingArea, chainID)
	if err != nil {
		return 0, err
	}

	prunedLinks, err := fp.pruneBlockLinks(stagingArea, chain)
	if err != nil {
		return 0, err
	}

	prunedOrphans, isChainModified, err := fp.pruneOrphanLinks(stagingArea, chain)
	if err != nil {
		return 0, err
	}
	if isChainModified {
		fp.chainStore.Stage(stagingArea, chain)
	}

	log.Infof("Pruned %d block links and %d parked blocks of chain %s below height %d",
		prunedLinks, prunedOrphans, chainID, chain.LastIrreversibleBlockHeight)
	return prunedLinks + prunedOrphans, nil
}

// pruneBlockLinks removes the links at or below the last irreversible
// height that differ from the chain index, together with every block
// linked on top of them at any height.
func (fp *forkPruner) pruneBlockLinks(stagingArea *model.StagingArea, chain *externalapi.DomainChain) (int, error) {
	blockLinks, err := fp.blockLinkStore.BlockLinks(fp.databaseContext, chain.ID)
	if err != nil {
		return 0, err
	}

	children := make(map[externalapi.DomainHash][]*externalapi.BlockLink)
	var staleLinks []*externalapi.BlockLink
	for _, blockLink := range blockLinks {
		children[*blockLink.PreviousBlockHash] = append(children[*blockLink.PreviousBlockHash], blockLink)

		if blockLink.Height > chain.LastIrreversibleBlockHeight {
			continue
		}
		irreversibleHash, err := fp.chainIndexStore.BlockHashAtHeight(fp.databaseContext, stagingArea,
			chain.ID, blockLink.Height)
		if err != nil {
			if database.IsNotFoundError(err) {
				continue
			}
			return 0, err
		}
		if !irreversibleHash.Equal(blockLink.BlockHash) {
			staleLinks = append(staleLinks, blockLink)
		}
	}

	pruned := make(map[externalapi.DomainHash]struct{})
	for len(staleLinks) > 0 {
		blockLink := staleLinks[len(staleLinks)-1]
		staleLinks = staleLinks[:len(staleLinks)-1]
		if _, ok := pruned[*blockLink.BlockHash]; ok {
			continue
		}

		log.Tracef("Pruning block %s at height %d", blockLink.BlockHash, blockLink.Height)
		fp.blockLinkStore.Delete(stagingArea, chain.ID, blockLink.BlockHash)
		pruned[*blockLink.BlockHash] = struct{}{}
		staleLinks = append(staleLinks, children[*blockLink.BlockHash]...)
	}
	return len(pruned), nil
}

// pruneOrphanLinks removes parked blocks at or below the last
// irreversible height along with their not-linked entries, and
// parked blocks that no not-linked entry refers to.
func (fp *forkPruner) pruneOrphanLinks(stagingArea *model.StagingArea,
	chain *externalapi.DomainChain) (pruned int, isChainModified bool, err error) {

	orphanLinks, err := fp.orphanLinkStore.OrphanLinks(fp.databaseContext, chain.ID)
	if err != nil {
		return 0, false, err
	}

	for _, orphanLink := range orphanLinks {
		pendingHash, ok := chain.NotLinkedBlocks[*orphanLink.PreviousBlockHash]
		isReferenced := ok && pendingHash.Equal(orphanLink.BlockHash)
		if isReferenced && orphanLink.Height > chain.LastIrreversibleBlockHeight {
			continue
		}

		if isReferenced {
			delete(chain.NotLinkedBlocks, *orphanLink.PreviousBlockHash)
			isChainModified = true
		}
		log.Tracef("Pruning parked block %s at height %d", orphanLink.BlockHash, orphanLink.Height)
		fp.orphanLinkStore.Delete(stagingArea, chain.ID, orphanLink.BlockHash)
		pruned++
	}
	return pruned, isChainModified, nil
}
