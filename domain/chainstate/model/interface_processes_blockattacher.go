package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// BlockAttacher links incoming blocks to their parents and keeps the
// longest chain pointer up to date
type BlockAttacher interface {
	AttachBlock(stagingArea *StagingArea, chainID externalapi.ChainID,
		blockLink *externalapi.BlockLink) (*externalapi.AttachResult, error)
}
