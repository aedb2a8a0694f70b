package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// IrreversibilityManager advances the last irreversible block and
// maintains the chain index below it
type IrreversibilityManager interface {
	AdvanceIrreversibleBlock(stagingArea *StagingArea, chainID externalapi.ChainID,
		blockHash *externalapi.DomainHash) error
}
