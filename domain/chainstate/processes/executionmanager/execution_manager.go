package executionmanager

import (
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/ruleerrors"
	"github.com/kaspanet/chaind/infrastructure/logger"
	"github.com/pkg/errors"
)

type executionManager struct {
	databaseContext model.DBReader

	chainStore     model.ChainStore
	blockLinkStore model.BlockLinkStore
}

// New instantiates a new ExecutionManager
func New(
	databaseContext model.DBReader,
	chainStore model.ChainStore,
	blockLinkStore model.BlockLinkStore) model.ExecutionManager {

	return &executionManager{
		databaseContext: databaseContext,
		chainStore:      chainStore,
		blockLinkStore:  blockLinkStore,
	}
}

// ReportExecutionStatus records the outcome of executing the block of
// blockLink. Only a linked block that was not executed yet may be
// reported, and only with a status an execution can end in.
func (em *executionManager) ReportExecutionStatus(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockLink *externalapi.BlockLink, newStatus externalapi.ExecutionStatus) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ReportExecutionStatus")
	defer onEnd()

	if !newStatus.IsTerminal() {
		return errors.Wrapf(ruleerrors.ErrInvalidExecutionStatusTransition,
			"cannot report status %s for block %s", newStatus, blockLink.BlockHash)
	}
	if blockLink.ExecutionStatus != externalapi.StatusNotExecuted {
		return errors.Wrapf(ruleerrors.ErrInvalidExecutionStatusTransition,
			"block %s is reported with status %s", blockLink.BlockHash, blockLink.ExecutionStatus)
	}

	exists, err := em.chainStore.Has(em.databaseContext, stagingArea, chainID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(database.ErrNotFound, "chain %s not found", chainID)
	}

	updatedLink, err := em.blockLinkStore.BlockLink(em.databaseContext, stagingArea, chainID, blockLink.BlockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return errors.Wrapf(err, "block %s is not linked in chain %s", blockLink.BlockHash, chainID)
		}
		return err
	}
	if updatedLink.ExecutionStatus != externalapi.StatusNotExecuted {
		return errors.Wrapf(ruleerrors.ErrInvalidExecutionStatusTransition,
			"block %s already has status %s", blockLink.BlockHash, updatedLink.ExecutionStatus)
	}

	log.Debugf("Block %s of chain %s: %s", blockLink.BlockHash, chainID, newStatus)
	updatedLink.ExecutionStatus = newStatus
	em.blockLinkStore.Stage(stagingArea, chainID, updatedLink)
	return nil
}

// NotExecutedBlocks returns, in ascending height order, the block of
// blockHash and its ancestors that were not executed yet. The walk
// stops at the first ancestor that is executed or not linked. If that
// ancestor failed execution, nothing on top of it can be executed and
// an empty slice is returned.
func (em *executionManager) NotExecutedBlocks(stagingArea *model.StagingArea, chainID externalapi.ChainID,
	blockHash *externalapi.DomainHash) ([]*externalapi.BlockLink, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "NotExecutedBlocks")
	defer onEnd()

	exists, err := em.chainStore.Has(em.databaseContext, stagingArea, chainID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Wrapf(database.ErrNotFound, "chain %s not found", chainID)
	}

	isLinked, err := em.blockLinkStore.Has(em.databaseContext, stagingArea, chainID, blockHash)
	if err != nil {
		return nil, err
	}
	if !isLinked {
		return nil, errors.Wrapf(database.ErrNotFound, "block %s is not linked in chain %s", blockHash, chainID)
	}

	notExecutedBlocks := []*externalapi.BlockLink{}
	current := blockHash
	for {
		blockLink, err := em.blockLinkStore.BlockLink(em.databaseContext, stagingArea, chainID, current)
		if err != nil {
			if database.IsNotFoundError(err) {
				break
			}
			return nil, err
		}

		if blockLink.ExecutionStatus == externalapi.StatusExecutionFailed {
			log.Debugf("Block %s failed execution. Blocks on top of it will never be executed",
				blockLink.BlockHash)
			return []*externalapi.BlockLink{}, nil
		}
		if blockLink.ExecutionStatus != externalapi.StatusNotExecuted {
			break
		}

		notExecutedBlocks = append(notExecutedBlocks, blockLink)
		current = blockLink.PreviousBlockHash
	}

	for i, j := 0, len(notExecutedBlocks)-1; i < j; i, j = i+1, j-1 {
		notExecutedBlocks[i], notExecutedBlocks[j] = notExecutedBlocks[j], notExecutedBlocks[i]
	}
	return notExecutedBlocks, nil
}
