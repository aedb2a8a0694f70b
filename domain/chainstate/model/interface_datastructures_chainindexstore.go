package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// ChainIndexStore represents a store of the irreversible block hash
// of every height
type ChainIndexStore interface {
	Store
	Stage(stagingArea *StagingArea, chainID externalapi.ChainID, height uint64, blockHash *externalapi.DomainHash)
	BlockHashAtHeight(dbContext DBReader, stagingArea *StagingArea, chainID externalapi.ChainID,
		height uint64) (*externalapi.DomainHash, error)
}
