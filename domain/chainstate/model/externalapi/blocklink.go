package externalapi

import "fmt"

// GenesisBlockHeight is the height of the first block of every chain.
const GenesisBlockHeight uint64 = 1

// ExecutionStatus is the execution state of a linked block.
type ExecutionStatus byte

const (
	// StatusNotExecuted means the block has not been executed yet.
	StatusNotExecuted ExecutionStatus = iota

	// StatusExecutionSucceeded means the block was executed successfully.
	StatusExecutionSucceeded

	// StatusExecutionFailed means the block failed execution.
	StatusExecutionFailed
)

var executionStatusStrings = map[ExecutionStatus]string{
	StatusNotExecuted:        "NotExecuted",
	StatusExecutionSucceeded: "ExecutionSucceeded",
	StatusExecutionFailed:    "ExecutionFailed",
}

func (s ExecutionStatus) String() string {
	str, ok := executionStatusStrings[s]
	if !ok {
		return fmt.Sprintf("ExecutionStatus(%d)", byte(s))
	}
	return str
}

// IsTerminal returns whether the status is one an execution can end in.
func (s ExecutionStatus) IsTerminal() bool {
	return s == StatusExecutionSucceeded || s == StatusExecutionFailed
}

// BlockLink is the engine's record of one block: where it sits and
// whether it was executed.
type BlockLink struct {
	Height            uint64
	BlockHash         *DomainHash
	PreviousBlockHash *DomainHash
	ExecutionStatus   ExecutionStatus
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = BlockLink{0, &DomainHash{}, &DomainHash{}, StatusNotExecuted}

// Clone returns a clone of BlockLink
func (link *BlockLink) Clone() *BlockLink {
	if link == nil {
		return nil
	}
	return &BlockLink{
		Height:            link.Height,
		BlockHash:         cloneHash(link.BlockHash),
		PreviousBlockHash: cloneHash(link.PreviousBlockHash),
		ExecutionStatus:   link.ExecutionStatus,
	}
}

// Equal returns whether link equals to other
func (link *BlockLink) Equal(other *BlockLink) bool {
	if link == nil || other == nil {
		return link == other
	}
	return link.Height == other.Height &&
		link.BlockHash.Equal(other.BlockHash) &&
		link.PreviousBlockHash.Equal(other.PreviousBlockHash) &&
		link.ExecutionStatus == other.ExecutionStatus
}

func (link *BlockLink) String() string {
	return fmt.Sprintf("%s@%d (previous: %s, status: %s)",
		link.BlockHash, link.Height, link.PreviousBlockHash, link.ExecutionStatus)
}

func cloneHash(hash *DomainHash) *DomainHash {
	if hash == nil {
		return nil
	}
	clone := *hash
	return &clone
}
