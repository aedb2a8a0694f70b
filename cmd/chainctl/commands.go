package main

import (
	"fmt"
	"sort"

	"github.com/kaspanet/chaind/domain/chainstate"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/pkg/errors"
)

var executionStatuses = map[string]externalapi.ExecutionStatus{
	"succeeded": externalapi.StatusExecutionSucceeded,
	"failed":    externalapi.StatusExecutionFailed,
}

func create(chainState chainstate.ChainState, conf *createConfig) error {
	genesisHash, err := externalapi.NewDomainHashFromString(conf.Genesis)
	if err != nil {
		return errors.Wrap(err, "invalid genesis hash")
	}

	chain, err := chainState.CreateChain(externalapi.ChainID(conf.ChainID), genesisHash)
	if err != nil {
		return err
	}
	printChain(chain)
	return nil
}

func attach(chainState chainstate.ChainState, conf *attachConfig) error {
	blockHash, err := externalapi.NewDomainHashFromString(conf.Hash)
	if err != nil {
		return errors.Wrap(err, "invalid block hash")
	}
	parentHash, err := externalapi.NewDomainHashFromString(conf.Parent)
	if err != nil {
		return errors.Wrap(err, "invalid parent hash")
	}

	result, err := chainState.AttachBlock(externalapi.ChainID(conf.ChainID), &externalapi.BlockLink{
		Height:            conf.Height,
		BlockHash:         blockHash,
		PreviousBlockHash: parentHash,
		ExecutionStatus:   externalapi.StatusNotExecuted,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Attached %s: %s\n", blockHash, result)
	return nil
}

func status(chainState chainstate.ChainState, conf *statusConfig) error {
	newStatus, ok := executionStatuses[conf.Status]
	if !ok {
		return errors.Errorf("unknown execution status %s", conf.Status)
	}
	blockHash, err := externalapi.NewDomainHashFromString(conf.Hash)
	if err != nil {
		return errors.Wrap(err, "invalid block hash")
	}

	chainID := externalapi.ChainID(conf.ChainID)
	blockLink, err := chainState.GetBlockLink(chainID, blockHash)
	if err != nil {
		return err
	}
	err = chainState.ReportExecutionStatus(chainID, blockLink, newStatus)
	if err != nil {
		return err
	}
	fmt.Printf("Block %s: %s\n", blockHash, newStatus)
	return nil
}

func irreversible(chainState chainstate.ChainState, conf *irreversibleConfig) error {
	blockHash, err := externalapi.NewDomainHashFromString(conf.Hash)
	if err != nil {
		return errors.Wrap(err, "invalid block hash")
	}

	chainID := externalapi.ChainID(conf.ChainID)
	err = chainState.AdvanceIrreversibleBlock(chainID, blockHash)
	if err != nil {
		return err
	}

	chain, err := chainState.GetChain(chainID)
	if err != nil {
		return err
	}
	fmt.Printf("Last irreversible block: %s at height %d\n",
		chain.LastIrreversibleBlockHash, chain.LastIrreversibleBlockHeight)
	return nil
}

func best(chainState chainstate.ChainState, conf *bestConfig) error {
	blockHash, err := externalapi.NewDomainHashFromString(conf.Hash)
	if err != nil {
		return errors.Wrap(err, "invalid block hash")
	}

	err = chainState.AdvanceBestChain(externalapi.ChainID(conf.ChainID), conf.Height, blockHash)
	if err != nil {
		return err
	}
	fmt.Printf("Best chain: %s at height %d\n", blockHash, conf.Height)
	return nil
}

func show(chainState chainstate.ChainState, conf *showConfig) error {
	chain, err := chainState.GetChain(externalapi.ChainID(conf.ChainID))
	if err != nil {
		return err
	}
	printChain(chain)
	return nil
}

func index(chainState chainstate.ChainState, conf *indexConfig) error {
	blockHash, err := chainState.GetChainBlockIndex(externalapi.ChainID(conf.ChainID), conf.Height)
	if err != nil {
		return err
	}
	fmt.Println(blockHash)
	return nil
}

func backlog(chainState chainstate.ChainState, conf *backlogConfig) error {
	blockHash, err := externalapi.NewDomainHashFromString(conf.Hash)
	if err != nil {
		return errors.Wrap(err, "invalid block hash")
	}

	blockLinks, err := chainState.GetNotExecutedBlocks(externalapi.ChainID(conf.ChainID), blockHash)
	if err != nil {
		return err
	}
	if len(blockLinks) == 0 {
		fmt.Println("No blocks to execute")
		return nil
	}
	for _, blockLink := range blockLinks {
		fmt.Printf("%d\t%s\n", blockLink.Height, blockLink.BlockHash)
	}
	return nil
}

func prune(chainState chainstate.ChainState, conf *pruneConfig) error {
	pruned, err := chainState.PruneStaleForks(externalapi.ChainID(conf.ChainID))
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d records\n", pruned)
	return nil
}

func printChain(chain *externalapi.DomainChain) {
	fmt.Printf("Chain:              %s\n", chain.ID)
	fmt.Printf("Genesis:            %s\n", chain.GenesisBlockHash)
	fmt.Printf("Longest chain:      %s at height %d\n", chain.LongestChainHash, chain.LongestChainHeight)
	fmt.Printf("Best chain:         %s at height %d\n", chain.BestChainHash, chain.BestChainHeight)
	fmt.Printf("Last irreversible:  %s at height %d\n",
		chain.LastIrreversibleBlockHash, chain.LastIrreversibleBlockHeight)

	if len(chain.NotLinkedBlocks) == 0 {
		return
	}
	missingParents := make([]externalapi.DomainHash, 0, len(chain.NotLinkedBlocks))
	for missingParent := range chain.NotLinkedBlocks {
		missingParents = append(missingParents, missingParent)
	}
	sort.Slice(missingParents, func(i, j int) bool {
		return missingParents[i].String() < missingParents[j].String()
	})
	fmt.Println("Parked blocks (missing parent -> block):")
	for _, missingParent := range missingParents {
		fmt.Printf("  %s -> %s\n", missingParent, chain.NotLinkedBlocks[missingParent])
	}
}
