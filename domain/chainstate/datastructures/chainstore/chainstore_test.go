package chainstore

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/utils/testutils"
)

func TestChainStore(t *testing.T) {
	dbManager, teardown := testutils.NewTestDatabase(t, "TestChainStore")
	defer teardown()

	store, err := New(10)
	if err != nil {
		t.Fatalf("TestChainStore: New: %+v", err)
	}

	_, err = store.Chain(dbManager, model.NewStagingArea(), 3)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestChainStore: expected a not-found error, got: %v", err)
	}

	chain := externalapi.NewDomainChain(3, testutils.HashFromString("genesis"))
	chain.NotLinkedBlocks[*testutils.HashFromString("parent")] = testutils.HashFromString("child")

	stagingArea := model.NewStagingArea()
	store.Stage(stagingArea, chain)

	// The store keeps its own copy
	chain.LongestChainHeight = 100
	staged, err := store.Chain(dbManager, stagingArea, 3)
	if err != nil {
		t.Fatalf("TestChainStore: Chain: %+v", err)
	}
	if staged.LongestChainHeight != externalapi.GenesisBlockHeight {
		t.Fatalf("TestChainStore: staged chain was modified through the caller's pointer")
	}

	testutils.CommitStagingArea(t, "TestChainStore", dbManager, stagingArea)

	freshStore, err := New(10)
	if err != nil {
		t.Fatalf("TestChainStore: New: %+v", err)
	}
	exists, err := freshStore.Has(dbManager, model.NewStagingArea(), 3)
	if err != nil {
		t.Fatalf("TestChainStore: Has: %+v", err)
	}
	if !exists {
		t.Fatalf("TestChainStore: committed chain does not exist")
	}
	committed, err := freshStore.Chain(dbManager, model.NewStagingArea(), 3)
	if err != nil {
		t.Fatalf("TestChainStore: Chain: %+v", err)
	}
	if !committed.Equal(staged) {
		t.Fatalf("TestChainStore: unexpected chain. Want: %s, got: %s",
			spew.Sdump(staged), spew.Sdump(committed))
	}
}

func TestChainStoreUncommittedStagingAreaIsDiscarded(t *testing.T) {
	dbManager, teardown := testutils.NewTestDatabase(t, "TestChainStoreUncommittedStagingAreaIsDiscarded")
	defer teardown()

	store, err := New(10)
	if err != nil {
		t.Fatalf("TestChainStoreUncommittedStagingAreaIsDiscarded: New: %+v", err)
	}

	store.Stage(model.NewStagingArea(), externalapi.NewDomainChain(1, testutils.HashFromString("genesis")))

	exists, err := store.Has(dbManager, model.NewStagingArea(), 1)
	if err != nil {
		t.Fatalf("TestChainStoreUncommittedStagingAreaIsDiscarded: Has: %+v", err)
	}
	if exists {
		t.Fatalf("TestChainStoreUncommittedStagingAreaIsDiscarded: " +
			"a chain staged in a discarded staging area is visible")
	}
}
