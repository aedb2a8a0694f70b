package chainstate

import (
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/ruleerrors"
	"github.com/kaspanet/chaind/domain/chainstate/utils/staging"
	"github.com/kaspanet/chaind/util/prioritylock"
	"github.com/pkg/errors"
)

// ChainState maintains the link structure, the tip pointers and the
// execution status of the blocks of every chain it manages. Calls on
// different chains never wait for each other.
type ChainState interface {
	CreateChain(chainID externalapi.ChainID, genesisHash *externalapi.DomainHash) (*externalapi.DomainChain, error)
	GetChain(chainID externalapi.ChainID) (*externalapi.DomainChain, error)

	AttachBlock(chainID externalapi.ChainID, blockLink *externalapi.BlockLink) (*externalapi.AttachResult, error)
	GetBlockLink(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error)

	ReportExecutionStatus(chainID externalapi.ChainID, blockLink *externalapi.BlockLink,
		newStatus externalapi.ExecutionStatus) error
	GetNotExecutedBlocks(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) ([]*externalapi.BlockLink, error)

	AdvanceIrreversibleBlock(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) error
	GetChainBlockIndex(chainID externalapi.ChainID, height uint64) (*externalapi.DomainHash, error)

	AdvanceBestChain(chainID externalapi.ChainID, height uint64, blockHash *externalapi.DomainHash) error

	PruneStaleForks(chainID externalapi.ChainID) (int, error)
}

type chainState struct {
	locks           *prioritylock.Registry[externalapi.ChainID]
	databaseContext model.DBManager

	blockAttacher          model.BlockAttacher
	irreversibilityManager model.IrreversibilityManager
	bestChainManager       model.BestChainManager
	executionManager       model.ExecutionManager
	forkPruner             model.ForkPruner

	chainStore      model.ChainStore
	blockLinkStore  model.BlockLinkStore
	orphanLinkStore model.OrphanLinkStore
	chainIndexStore model.ChainIndexStore
}

// CreateChain creates a chain whose only block is the given genesis
// block. All its tip pointers point at the genesis block.
func (s *chainState) CreateChain(chainID externalapi.ChainID,
	genesisHash *externalapi.DomainHash) (*externalapi.DomainChain, error) {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityLock()
	defer mutex.HighPriorityUnlock()

	stagingArea := model.NewStagingArea()

	exists, err := s.chainStore.Has(s.databaseContext, stagingArea, chainID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(ruleerrors.ErrChainAlreadyExists, "chain %s", chainID)
	}

	chain := externalapi.NewDomainChain(chainID, genesisHash)
	genesisLink := &externalapi.BlockLink{
		Height:            externalapi.GenesisBlockHeight,
		BlockHash:         genesisHash,
		PreviousBlockHash: &externalapi.ZeroHash,
		ExecutionStatus:   externalapi.StatusNotExecuted,
	}
	s.chainStore.Stage(stagingArea, chain)
	s.blockLinkStore.Stage(stagingArea, chainID, genesisLink)
	s.chainIndexStore.Stage(stagingArea, chainID, externalapi.GenesisBlockHeight, genesisHash)

	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	log.Infof("Created chain %s with genesis block %s", chainID, genesisHash)
	return chain.Clone(), nil
}

// GetChain returns a copy of the chain with the given id
func (s *chainState) GetChain(chainID externalapi.ChainID) (*externalapi.DomainChain, error) {
	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityReadLock()
	defer mutex.HighPriorityReadUnlock()

	return s.chainStore.Chain(s.databaseContext, model.NewStagingArea(), chainID)
}

func (s *chainState) AttachBlock(chainID externalapi.ChainID,
	blockLink *externalapi.BlockLink) (*externalapi.AttachResult, error) {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityLock()
	defer mutex.HighPriorityUnlock()

	stagingArea := model.NewStagingArea()
	result, err := s.blockAttacher.AttachBlock(stagingArea, chainID, blockLink)
	if err != nil {
		return nil, err
	}

	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	log.Debugf("Attached block %s to chain %s: %s", blockLink.BlockHash, chainID, result)
	return result, nil
}

func (s *chainState) GetBlockLink(chainID externalapi.ChainID,
	blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error) {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityReadLock()
	defer mutex.HighPriorityReadUnlock()

	blockLink, err := s.blockLinkStore.BlockLink(s.databaseContext, model.NewStagingArea(), chainID, blockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(database.ErrNotFound, "block %s is not linked in chain %s", blockHash, chainID)
		}
		return nil, err
	}
	return blockLink, nil
}

func (s *chainState) ReportExecutionStatus(chainID externalapi.ChainID, blockLink *externalapi.BlockLink,
	newStatus externalapi.ExecutionStatus) error {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityLock()
	defer mutex.HighPriorityUnlock()

	stagingArea := model.NewStagingArea()
	err := s.executionManager.ReportExecutionStatus(stagingArea, chainID, blockLink, newStatus)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(s.databaseContext, stagingArea)
}

func (s *chainState) GetNotExecutedBlocks(chainID externalapi.ChainID,
	blockHash *externalapi.DomainHash) ([]*externalapi.BlockLink, error) {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityReadLock()
	defer mutex.HighPriorityReadUnlock()

	return s.executionManager.NotExecutedBlocks(model.NewStagingArea(), chainID, blockHash)
}

func (s *chainState) AdvanceIrreversibleBlock(chainID externalapi.ChainID, blockHash *externalapi.DomainHash) error {
	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityLock()
	defer mutex.HighPriorityUnlock()

	stagingArea := model.NewStagingArea()
	err := s.irreversibilityManager.AdvanceIrreversibleBlock(stagingArea, chainID, blockHash)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(s.databaseContext, stagingArea)
}

// GetChainBlockIndex returns the irreversible block at the given
// height of the chain
func (s *chainState) GetChainBlockIndex(chainID externalapi.ChainID, height uint64) (*externalapi.DomainHash, error) {
	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityReadLock()
	defer mutex.HighPriorityReadUnlock()

	blockHash, err := s.chainIndexStore.BlockHashAtHeight(s.databaseContext, model.NewStagingArea(), chainID, height)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(database.ErrNotFound, "no irreversible block at height %d of chain %s",
				height, chainID)
		}
		return nil, err
	}
	return blockHash, nil
}

func (s *chainState) AdvanceBestChain(chainID externalapi.ChainID, height uint64,
	blockHash *externalapi.DomainHash) error {

	mutex := s.locks.Mutex(chainID)
	mutex.HighPriorityLock()
	defer mutex.HighPriorityUnlock()

	stagingArea := model.NewStagingArea()
	err := s.bestChainManager.AdvanceBestChain(stagingArea, chainID, height, blockHash)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(s.databaseContext, stagingArea)
}

// PruneStaleForks removes the data of forks that can no longer become
// part of the chain. It yields to every other operation on the chain.
func (s *chainState) PruneStaleForks(chainID externalapi.ChainID) (int, error) {
	mutex := s.locks.Mutex(chainID)
	mutex.LowPriorityLock()
	defer mutex.LowPriorityUnlock()

	stagingArea := model.NewStagingArea()
	pruned, err := s.forkPruner.PruneStaleForks(stagingArea, chainID)
	if err != nil {
		return 0, err
	}

	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return 0, err
	}
	return pruned, nil
}
