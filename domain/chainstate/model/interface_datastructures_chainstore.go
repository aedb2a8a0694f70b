package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// ChainStore represents a store of DomainChains
type ChainStore interface {
	Store
	Stage(stagingArea *StagingArea, chain *externalapi.DomainChain)
	Chain(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID) (*externalapi.DomainChain, error)
	Has(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID) (bool, error)
}
