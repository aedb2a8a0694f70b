package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// BestChainManager manages the best chain pointer
type BestChainManager interface {
	AdvanceBestChain(stagingArea *StagingArea, chainID externalapi.ChainID,
		height uint64, blockHash *externalapi.DomainHash) error
}
