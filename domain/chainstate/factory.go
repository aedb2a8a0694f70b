package chainstate

import (
	"os"

	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/blocklinkstore"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/chainindexstore"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/chainstore"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/orphanlinkstore"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/processes/bestchainmanager"
	"github.com/kaspanet/chaind/domain/chainstate/processes/blockattacher"
	"github.com/kaspanet/chaind/domain/chainstate/processes/executionmanager"
	"github.com/kaspanet/chaind/domain/chainstate/processes/forkpruner"
	"github.com/kaspanet/chaind/domain/chainstate/processes/irreversibilitymanager"
	infrastructuredatabase "github.com/kaspanet/chaind/infrastructure/db/database"
	"github.com/kaspanet/chaind/infrastructure/db/database/ldb"
	"github.com/kaspanet/chaind/util/prioritylock"
	"github.com/pkg/errors"
)

// Factory instantiates new ChainStates
type Factory interface {
	NewChainState(config *Config, db infrastructuredatabase.Database) (ChainState, error)
	NewTestChainState(config *Config, testName string) (
		tc TestChainState, teardown func(keepDataDir bool), err error)
}

type factory struct{}

// NewFactory creates a new ChainState factory
func NewFactory() Factory {
	return &factory{}
}

// NewChainState instantiates a new ChainState over the given database
func (f *factory) NewChainState(config *Config, db infrastructuredatabase.Database) (ChainState, error) {
	return f.newChainState(config, db)
}

func (f *factory) newChainState(config *Config, db infrastructuredatabase.Database) (*chainState, error) {
	if config.CacheSize <= 0 {
		return nil, errors.Errorf("cache size must be positive, got %d", config.CacheSize)
	}
	dbManager := database.New(db)

	// Data Structures
	chainStore, err := chainstore.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	blockLinkStore, err := blocklinkstore.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	orphanLinkStore, err := orphanlinkstore.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	chainIndexStore, err := chainindexstore.New(config.CacheSize)
	if err != nil {
		return nil, err
	}

	// Processes
	blockAttacher := blockattacher.New(
		dbManager,
		chainStore,
		blockLinkStore,
		orphanLinkStore)
	irreversibilityManager := irreversibilitymanager.New(
		dbManager,
		chainStore,
		blockLinkStore,
		chainIndexStore)
	bestChainManager := bestchainmanager.New(
		dbManager,
		chainStore)
	executionManager := executionmanager.New(
		dbManager,
		chainStore,
		blockLinkStore)
	forkPruner := forkpruner.New(
		dbManager,
		chainStore,
		blockLinkStore,
		orphanLinkStore,
		chainIndexStore)

	return &chainState{
		locks:           prioritylock.NewRegistry[externalapi.ChainID](),
		databaseContext: dbManager,

		blockAttacher:          blockAttacher,
		irreversibilityManager: irreversibilityManager,
		bestChainManager:       bestChainManager,
		executionManager:       executionManager,
		forkPruner:             forkPruner,

		chainStore:      chainStore,
		blockLinkStore:  blockLinkStore,
		orphanLinkStore: orphanLinkStore,
		chainIndexStore: chainIndexStore,
	}, nil
}

// NewTestChainState instantiates a ChainState over a fresh leveldb
// database in a temporary directory. teardown closes the database and
// removes the directory unless keepDataDir is set.
func (f *factory) NewTestChainState(config *Config, testName string) (
	tc TestChainState, teardown func(keepDataDir bool), err error) {

	dataDir, err := os.MkdirTemp("", testName)
	if err != nil {
		return nil, nil, err
	}
	db, err := ldb.NewLevelDB(dataDir, 8)
	if err != nil {
		return nil, nil, err
	}

	chainStateAsImplementation, err := f.newChainState(config, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	tstChainState := &testChainState{
		chainState: chainStateAsImplementation,
		dataDir:    dataDir,
	}
	teardown = func(keepDataDir bool) {
		db.Close()
		if !keepDataDir {
			err := os.RemoveAll(dataDir)
			if err != nil {
				log.Errorf("Error removing data directory for test chain state: %s", err)
			}
		}
	}
	return tstChainState, teardown, nil
}
