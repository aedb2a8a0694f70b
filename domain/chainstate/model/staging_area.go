package model

import (
	"sort"

	"github.com/pkg/errors"
)

// StagingShard holds the pending changes of a single store
// within a StagingArea.
type StagingShard interface {
	// Commit writes the staged changes into dbTx.
	Commit(dbTx DBTransaction) error

	// UpdateCache applies the staged changes to the store's cache.
	// It is called only after the transaction the shard was
	// committed into was written to the database.
	UpdateCache()
}

// StagingArea collects the changes of a single engine operation.
// Nothing is written to the database until Commit is called, so an
// operation that fails midway leaves the database untouched.
type StagingArea struct {
	shards      map[string]StagingShard
	isCommitted bool
}

// NewStagingArea creates a new, empty staging area.
func NewStagingArea() *StagingArea {
	return &StagingArea{
		shards:      make(map[string]StagingShard),
		isCommitted: false,
	}
}

// GetOrCreateShard attempts to retrieve a shard with the given name.
// If it does not exist - a new shard is created using `createFunc`.
func (sa *StagingArea) GetOrCreateShard(shardName string, createFunc func() StagingShard) StagingShard {
	if _, ok := sa.shards[shardName]; !ok {
		sa.shards[shardName] = createFunc()
	}

	return sa.shards[shardName]
}

// Commit writes the changes of every shard into dbTx, in shard name
// order. The caller is responsible for committing dbTx and then
// calling UpdateCaches.
func (sa *StagingArea) Commit(dbTx DBTransaction) error {
	if sa.isCommitted {
		return errors.New("Attempt to call Commit on already committed stagingArea")
	}

	shardNames := make([]string, 0, len(sa.shards))
	for shardName := range sa.shards {
		shardNames = append(shardNames, shardName)
	}
	sort.Strings(shardNames)

	for _, shardName := range shardNames {
		err := sa.shards[shardName].Commit(dbTx)
		if err != nil {
			return err
		}
	}

	sa.isCommitted = true
	return nil
}

// UpdateCaches lets every shard apply its changes to its store's
// cache. Must be called after the database transaction was committed.
func (sa *StagingArea) UpdateCaches() {
	for _, shard := range sa.shards {
		shard.UpdateCache()
	}
}

// IsEmpty returns whether no store staged anything.
func (sa *StagingArea) IsEmpty() bool {
	return len(sa.shards) == 0
}
