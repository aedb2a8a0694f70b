package externalapi

// DomainChain is the mutable metadata of one chain.
type DomainChain struct {
	ID               ChainID
	GenesisBlockHash *DomainHash

	LongestChainHash   *DomainHash
	LongestChainHeight uint64

	BestChainHash   *DomainHash
	BestChainHeight uint64

	LastIrreversibleBlockHash   *DomainHash
	LastIrreversibleBlockHeight uint64

	// NotLinkedBlocks maps a missing parent hash to the hash of the
	// pending child that waits for it. A newer orphan for the same
	// parent replaces the older one.
	NotLinkedBlocks map[DomainHash]*DomainHash
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Clone accordingly.
var _ = DomainChain{0, &DomainHash{}, &DomainHash{}, 0, &DomainHash{}, 0,
	&DomainHash{}, 0, map[DomainHash]*DomainHash{}}

// NewDomainChain returns the initial metadata of a chain whose only
// block is the given genesis block.
func NewDomainChain(id ChainID, genesisHash *DomainHash) *DomainChain {
	return &DomainChain{
		ID:                          id,
		GenesisBlockHash:            cloneHash(genesisHash),
		LongestChainHash:            cloneHash(genesisHash),
		LongestChainHeight:          GenesisBlockHeight,
		BestChainHash:               cloneHash(genesisHash),
		BestChainHeight:             GenesisBlockHeight,
		LastIrreversibleBlockHash:   cloneHash(genesisHash),
		LastIrreversibleBlockHeight: GenesisBlockHeight,
		NotLinkedBlocks:             make(map[DomainHash]*DomainHash),
	}
}

// Clone returns a deep copy of the chain.
func (chain *DomainChain) Clone() *DomainChain {
	if chain == nil {
		return nil
	}

	notLinkedBlocksClone := make(map[DomainHash]*DomainHash, len(chain.NotLinkedBlocks))
	for parent, child := range chain.NotLinkedBlocks {
		notLinkedBlocksClone[parent] = cloneHash(child)
	}

	return &DomainChain{
		ID:                          chain.ID,
		GenesisBlockHash:            cloneHash(chain.GenesisBlockHash),
		LongestChainHash:            cloneHash(chain.LongestChainHash),
		LongestChainHeight:          chain.LongestChainHeight,
		BestChainHash:               cloneHash(chain.BestChainHash),
		BestChainHeight:             chain.BestChainHeight,
		LastIrreversibleBlockHash:   cloneHash(chain.LastIrreversibleBlockHash),
		LastIrreversibleBlockHeight: chain.LastIrreversibleBlockHeight,
		NotLinkedBlocks:             notLinkedBlocksClone,
	}
}

// Equal returns whether chain equals to other
func (chain *DomainChain) Equal(other *DomainChain) bool {
	if chain == nil || other == nil {
		return chain == other
	}

	if chain.ID != other.ID ||
		!chain.GenesisBlockHash.Equal(other.GenesisBlockHash) ||
		!chain.LongestChainHash.Equal(other.LongestChainHash) ||
		chain.LongestChainHeight != other.LongestChainHeight ||
		!chain.BestChainHash.Equal(other.BestChainHash) ||
		chain.BestChainHeight != other.BestChainHeight ||
		!chain.LastIrreversibleBlockHash.Equal(other.LastIrreversibleBlockHash) ||
		chain.LastIrreversibleBlockHeight != other.LastIrreversibleBlockHeight {
		return false
	}

	if len(chain.NotLinkedBlocks) != len(other.NotLinkedBlocks) {
		return false
	}
	for parent, child := range chain.NotLinkedBlocks {
		otherChild, ok := other.NotLinkedBlocks[parent]
		if !ok || !child.Equal(otherChild) {
			return false
		}
	}
	return true
}
