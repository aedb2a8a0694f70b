package model

// Names of the staging shards of every store.
const (
	StagingShardIDBlockLink  = "block-link"
	StagingShardIDChain      = "chain"
	StagingShardIDChainIndex = "chain-index"
	StagingShardIDOrphanLink = "orphan-link"
)
