package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// BlockLinkStore represents a store of linked BlockLinks
type BlockLinkStore interface {
	Store
	Stage(stagingArea *StagingArea, chainID externalapi.ChainID, blockLink *externalapi.BlockLink)
	Delete(stagingArea *StagingArea, chainID externalapi.ChainID, blockHash *externalapi.DomainHash)
	BlockLink(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID,
		blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error)
	Has(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID,
		blockHash *externalapi.DomainHash) (bool, error)
	BlockLinks(dbContext DBReader, chainID externalapi.ChainID) ([]*externalapi.BlockLink, error)
}
