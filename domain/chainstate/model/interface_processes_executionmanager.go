package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// ExecutionManager tracks the execution status of linked blocks
type ExecutionManager interface {
	ReportExecutionStatus(stagingArea *StagingArea, chainID externalapi.ChainID,
		blockLink *externalapi.BlockLink, newStatus externalapi.ExecutionStatus) error
	NotExecutedBlocks(stagingArea *StagingArea, chainID externalapi.ChainID,
		blockHash *externalapi.DomainHash) ([]*externalapi.BlockLink, error)
}
