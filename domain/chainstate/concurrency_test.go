package chainstate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/utils/testutils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentChains(t *testing.T) {
	const testName = "TestConcurrentChains"
	const chainCount = 4
	const blocksPerChain = 50
	tc, teardown := newTestChainState(t, testName)
	defer teardown()

	for chainID := externalapi.ChainID(1); chainID <= chainCount; chainID++ {
		createChain(t, testName, tc, chainID)
	}

	group := errgroup.Group{}
	for chainID := externalapi.ChainID(1); chainID <= chainCount; chainID++ {
		chainID := chainID

		group.Go(func() error {
			parent := testutils.HashFromString("G")
			for i := uint64(1); i <= blocksPerChain; i++ {
				blockHash := testutils.HashFromString(fmt.Sprintf("%d-%d", chainID, i))
				result, err := tc.AttachBlock(chainID, testutils.NewBlockLink(height(i), blockHash, parent))
				if err != nil {
					return err
				}
				if !result.LongestChainAdvanced {
					return errors.Errorf("block %d of chain %s didn't advance the longest chain", i, chainID)
				}
				parent = blockHash
			}
			return nil
		})

		// Readers run alongside the writer of the same chain
		group.Go(func() error {
			previousHeight := uint64(0)
			for i := 0; i < blocksPerChain; i++ {
				chain, err := tc.GetChain(chainID)
				if err != nil {
					return err
				}
				if chain.LongestChainHeight < previousHeight {
					return errors.Errorf("longest chain of chain %s went down from %d to %d",
						chainID, previousHeight, chain.LongestChainHeight)
				}
				previousHeight = chain.LongestChainHeight

				backlog, err := tc.GetNotExecutedBlocks(chainID, chain.LongestChainHash)
				if err != nil {
					return err
				}
				if uint64(len(backlog)) != chain.LongestChainHeight-externalapi.GenesisBlockHeight+1 {
					return errors.Errorf("backlog of %d blocks for a tip at height %d",
						len(backlog), chain.LongestChainHeight)
				}
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		t.Fatalf("%s: %+v", testName, err)
	}

	for chainID := externalapi.ChainID(1); chainID <= chainCount; chainID++ {
		checkLongestChain(t, testName, tc, chainID, blocksPerChain, fmt.Sprintf("%d-%d", chainID, blocksPerChain))
	}
}

// TestConcurrentAttachOrder attaches the blocks of several branches in
// a random order from several goroutines. Whatever the interleaving, all
// blocks end up linked and the longest chain reaches the highest block.
func TestConcurrentAttachOrder(t *testing.T) {
	const testName = "TestConcurrentAttachOrder"
	const branchCount = 8
	const workerCount = 8
	tc, teardown := newTestChainState(t, testName)
	defer teardown()

	createChain(t, testName, tc, 1)

	// Every block but the genesis block has at most one child, so no
	// parked block is ever replaced by a sibling
	random := rand.New(rand.NewSource(42))
	var links []*externalapi.BlockLink
	maxHeight := uint64(0)
	for branch := 0; branch < branchCount; branch++ {
		branchLength := uint64(10 + random.Intn(30))
		parent := testutils.HashFromString("G")
		for i := uint64(1); i <= branchLength; i++ {
			blockHash := testutils.HashFromString(fmt.Sprintf("%d-%d", branch, i))
			links = append(links, testutils.NewBlockLink(height(i), blockHash, parent))
			parent = blockHash
		}
		if branchLength > maxHeight {
			maxHeight = branchLength
		}
	}
	random.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })

	group := errgroup.Group{}
	for worker := 0; worker < workerCount; worker++ {
		worker := worker
		group.Go(func() error {
			for i := worker; i < len(links); i += workerCount {
				_, err := tc.AttachBlock(1, links[i])
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		t.Fatalf("%s: %+v", testName, err)
	}

	chain := getChain(t, testName, tc, 1)
	if chain.LongestChainHeight != height(maxHeight) {
		t.Fatalf("%s: expected the longest chain at relative height %d, got %d",
			testName, maxHeight, chain.LongestChainHeight-externalapi.GenesisBlockHeight)
	}
	for _, link := range links {
		_, err := tc.GetBlockLink(1, link.BlockHash)
		if err != nil {
			t.Fatalf("%s: block %s is not linked: %+v", testName, link.BlockHash, err)
		}
	}
}

// TestLongestChainIsMonotonic attaches a random tree, without parked
// blocks, and checks that the longest chain moves exactly on strict
// height increases
func TestLongestChainIsMonotonic(t *testing.T) {
	const testName = "TestLongestChainIsMonotonic"
	tc, teardown := newTestChainState(t, testName)
	defer teardown()

	createChain(t, testName, tc, 1)

	random := rand.New(rand.NewSource(7))
	linked := []*externalapi.BlockLink{testutils.NewBlockLink(height(0), testutils.HashFromString("G"), &externalapi.ZeroHash)}
	for i := uint64(1); i <= 300; i++ {
		parent := linked[random.Intn(len(linked))]
		link := testutils.NewBlockLink(parent.Height+1, testutils.HashFromUint64(i), parent.BlockHash)

		before := getChain(t, testName, tc, 1)
		result, err := tc.AttachBlock(1, link)
		if err != nil {
			t.Fatalf("%s: AttachBlock: %+v", testName, err)
		}
		after := getChain(t, testName, tc, 1)

		if !result.Linked || result.NotLinked || result.CascadeLinked {
			t.Fatalf("%s: unexpected result: %s", testName, result)
		}
		isHigher := link.Height > before.LongestChainHeight
		if result.LongestChainAdvanced != isHigher {
			t.Fatalf("%s: LongestChainAdvanced is %t for a block at height %d over a tip at height %d",
				testName, result.LongestChainAdvanced, link.Height, before.LongestChainHeight)
		}
		if isHigher && !after.LongestChainHash.Equal(link.BlockHash) {
			t.Fatalf("%s: the longest chain didn't move to a higher block", testName)
		}
		if !isHigher && !after.LongestChainHash.Equal(before.LongestChainHash) {
			t.Fatalf("%s: the longest chain moved to a block that is not higher", testName)
		}
		linked = append(linked, link)
	}
}
