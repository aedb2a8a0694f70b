package model

import "github.com/kaspanet/chaind/domain/chainstate/model/externalapi"

// ForkPruner removes data of forks that can no longer become canonical
type ForkPruner interface {
	PruneStaleForks(stagingArea *StagingArea, chainID externalapi.ChainID) (int, error)
}
