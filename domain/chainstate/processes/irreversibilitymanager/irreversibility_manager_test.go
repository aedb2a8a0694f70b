package irreversibilitymanager

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/blocklinkstore"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/chainindexstore"
	"github.com/kaspanet/chaind/domain/chainstate/datastructures/chainstore"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/ruleerrors"
	"github.com/kaspanet/chaind/domain/chainstate/utils/testutils"
	"github.com/pkg/errors"
)

const testChainID externalapi.ChainID = 3

// setupChain stores a chain whose longest branch is genesis <- b1 <- ... <- b<length>
// and a fork genesis <- f1 <- f2. All blocks are linked directly, without
// going through the block attacher.
func setupChain(t *testing.T, testName string, length uint64) (dbManager model.DBManager,
	chainStore model.ChainStore, chainIndexStore model.ChainIndexStore, manager model.IrreversibilityManager,
	teardown func()) {

	dbManager, teardown = testutils.NewTestDatabase(t, testName)

	chainStore, err := chainstore.New(10)
	if err != nil {
		t.Fatalf("%s: chainstore.New: %+v", testName, err)
	}
	blockLinkStore, err := blocklinkstore.New(10)
	if err != nil {
		t.Fatalf("%s: blocklinkstore.New: %+v", testName, err)
	}
	chainIndexStore, err = chainindexstore.New(10)
	if err != nil {
		t.Fatalf("%s: chainindexstore.New: %+v", testName, err)
	}

	stagingArea := model.NewStagingArea()
	genesis := testutils.HashFromString("genesis")
	chain := externalapi.NewDomainChain(testChainID, genesis)
	blockLinkStore.Stage(stagingArea, testChainID,
		testutils.NewBlockLink(externalapi.GenesisBlockHeight, genesis, &externalapi.ZeroHash))
	chainIndexStore.Stage(stagingArea, testChainID, externalapi.GenesisBlockHeight, genesis)

	previous := genesis
	for i := uint64(1); i <= length; i++ {
		blockHash := testutils.HashFromUint64(i)
		blockLinkStore.Stage(stagingArea, testChainID,
			testutils.NewBlockLink(externalapi.GenesisBlockHeight+i, blockHash, previous))
		previous = blockHash
	}
	chain.LongestChainHash = previous
	chain.LongestChainHeight = externalapi.GenesisBlockHeight + length

	blockLinkStore.Stage(stagingArea, testChainID,
		testutils.NewBlockLink(externalapi.GenesisBlockHeight+1, testutils.HashFromString("f1"), genesis))
	blockLinkStore.Stage(stagingArea, testChainID,
		testutils.NewBlockLink(externalapi.GenesisBlockHeight+2, testutils.HashFromString("f2"),
			testutils.HashFromString("f1")))

	chainStore.Stage(stagingArea, chain)
	testutils.CommitStagingArea(t, testName, dbManager, stagingArea)

	manager = New(dbManager, chainStore, blockLinkStore, chainIndexStore)
	return dbManager, chainStore, chainIndexStore, manager, teardown
}

func TestAdvanceIrreversibleBlock(t *testing.T) {
	dbManager, chainStore, chainIndexStore, manager, teardown := setupChain(t, "TestAdvanceIrreversibleBlock", 10)
	defer teardown()

	advance := func(blockHash *externalapi.DomainHash) error {
		stagingArea := model.NewStagingArea()
		err := manager.AdvanceIrreversibleBlock(stagingArea, testChainID, blockHash)
		if err != nil {
			return err
		}
		testutils.CommitStagingArea(t, "TestAdvanceIrreversibleBlock", dbManager, stagingArea)
		return nil
	}

	err := advance(testutils.HashFromUint64(4))
	if err != nil {
		t.Fatalf("TestAdvanceIrreversibleBlock: AdvanceIrreversibleBlock: %+v", err)
	}
	err = advance(testutils.HashFromUint64(8))
	if err != nil {
		t.Fatalf("TestAdvanceIrreversibleBlock: AdvanceIrreversibleBlock: %+v", err)
	}

	chain, err := chainStore.Chain(dbManager, model.NewStagingArea(), testChainID)
	if err != nil {
		t.Fatalf("TestAdvanceIrreversibleBlock: Chain: %+v", err)
	}
	if !chain.LastIrreversibleBlockHash.Equal(testutils.HashFromUint64(8)) ||
		chain.LastIrreversibleBlockHeight != externalapi.GenesisBlockHeight+8 {
		t.Fatalf("TestAdvanceIrreversibleBlock: unexpected last irreversible block: %s", spew.Sdump(chain))
	}

	for i := uint64(1); i <= 8; i++ {
		blockHash, err := chainIndexStore.BlockHashAtHeight(dbManager, model.NewStagingArea(), testChainID,
			externalapi.GenesisBlockHeight+i)
		if err != nil {
			t.Fatalf("TestAdvanceIrreversibleBlock: BlockHashAtHeight(%d): %+v", i, err)
		}
		if !blockHash.Equal(testutils.HashFromUint64(i)) {
			t.Fatalf("TestAdvanceIrreversibleBlock: unexpected index entry at height %d: %s", i, blockHash)
		}
	}
	_, err = chainIndexStore.BlockHashAtHeight(dbManager, model.NewStagingArea(), testChainID,
		externalapi.GenesisBlockHeight+9)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestAdvanceIrreversibleBlock: height above the last irreversible block is indexed: %v", err)
	}
}

func TestAdvanceIrreversibleBlockErrors(t *testing.T) {
	dbManager, chainStore, _, manager, teardown := setupChain(t, "TestAdvanceIrreversibleBlockErrors", 5)
	defer teardown()

	stagingArea := model.NewStagingArea()
	err := manager.AdvanceIrreversibleBlock(stagingArea, testChainID, testutils.HashFromUint64(3))
	if err != nil {
		t.Fatalf("TestAdvanceIrreversibleBlockErrors: AdvanceIrreversibleBlock: %+v", err)
	}
	testutils.CommitStagingArea(t, "TestAdvanceIrreversibleBlockErrors", dbManager, stagingArea)

	tests := []struct {
		name          string
		blockHash     *externalapi.DomainHash
		expectedError error
	}{
		{"unknown block", testutils.HashFromString("unknown"), ruleerrors.ErrIrreversibleBlockNotOnLongestChain},
		{"fork block", testutils.HashFromString("f2"), ruleerrors.ErrIrreversibleHeightNotIncreasing},
		{"same block", testutils.HashFromUint64(3), ruleerrors.ErrIrreversibleHeightNotIncreasing},
		{"lower block", testutils.HashFromUint64(1), ruleerrors.ErrIrreversibleHeightNotIncreasing},
	}
	for _, test := range tests {
		err := manager.AdvanceIrreversibleBlock(model.NewStagingArea(), testChainID, test.blockHash)
		if !errors.Is(err, test.expectedError) {
			t.Fatalf("TestAdvanceIrreversibleBlockErrors: %s: expected %v, got: %v",
				test.name, test.expectedError, err)
		}
	}

	chain, err := chainStore.Chain(dbManager, model.NewStagingArea(), testChainID)
	if err != nil {
		t.Fatalf("TestAdvanceIrreversibleBlockErrors: Chain: %+v", err)
	}
	if !chain.LastIrreversibleBlockHash.Equal(testutils.HashFromUint64(3)) {
		t.Fatalf("TestAdvanceIrreversibleBlockErrors: a failed advance changed the chain: %s", spew.Sdump(chain))
	}
}

func TestAdvanceIrreversibleBlockFork(t *testing.T) {
	_, _, _, manager, teardown := setupChain(t, "TestAdvanceIrreversibleBlockFork", 5)
	defer teardown()

	err := manager.AdvanceIrreversibleBlock(model.NewStagingArea(), testChainID, testutils.HashFromString("f2"))
	if !errors.Is(err, ruleerrors.ErrIrreversibleBlockNotOnLongestChain) {
		t.Fatalf("TestAdvanceIrreversibleBlockFork: expected ErrIrreversibleBlockNotOnLongestChain, got: %v", err)
	}
	if !ruleerrors.IsInvalidOperation(err) {
		t.Fatalf("TestAdvanceIrreversibleBlockFork: error is not a rule error: %v", err)
	}
}
