package chainstate

import (
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
)

// TestChainState is a ChainState that also exposes its internals to
// tests
type TestChainState interface {
	ChainState

	DataDir() string
	DatabaseContext() model.DBManager

	ChainStore() model.ChainStore
	BlockLinkStore() model.BlockLinkStore
	OrphanLinkStore() model.OrphanLinkStore
	ChainIndexStore() model.ChainIndexStore

	// OrphanLinks returns the parked blocks of the given chain
	OrphanLinks(chainID externalapi.ChainID) ([]*externalapi.BlockLink, error)
}

type testChainState struct {
	*chainState
	dataDir string
}

func (tcs *testChainState) DataDir() string {
	return tcs.dataDir
}

func (tcs *testChainState) DatabaseContext() model.DBManager {
	return tcs.databaseContext
}

func (tcs *testChainState) ChainStore() model.ChainStore {
	return tcs.chainStore
}

func (tcs *testChainState) BlockLinkStore() model.BlockLinkStore {
	return tcs.blockLinkStore
}

func (tcs *testChainState) OrphanLinkStore() model.OrphanLinkStore {
	return tcs.orphanLinkStore
}

func (tcs *testChainState) ChainIndexStore() model.ChainIndexStore {
	return tcs.chainIndexStore
}

func (tcs *testChainState) OrphanLinks(chainID externalapi.ChainID) ([]*externalapi.BlockLink, error) {
	mutex := tcs.locks.Mutex(chainID)
	mutex.HighPriorityReadLock()
	defer mutex.HighPriorityReadUnlock()

	return tcs.orphanLinkStore.OrphanLinks(tcs.databaseContext, chainID)
}
