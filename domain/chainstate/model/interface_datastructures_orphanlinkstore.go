package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// OrphanLinkStore represents a store of the links of blocks whose
// parent is not linked yet
type OrphanLinkStore interface {
	Store
	Stage(stagingArea *StagingArea, chainID externalapi.ChainID, orphanLink *externalapi.BlockLink)
	Delete(stagingArea *StagingArea, chainID externalapi.ChainID, blockHash *externalapi.DomainHash)
	OrphanLink(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID,
		blockHash *externalapi.DomainHash) (*externalapi.BlockLink, error)
	OrphanLinks(dbContext DBReader, chainID externalapi.ChainID) ([]*externalapi.BlockLink, error)
}
