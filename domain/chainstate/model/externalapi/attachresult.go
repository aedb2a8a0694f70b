package externalapi

import "strings"

// AttachResult describes what happened when a block was attached.
// The flags are independent and any combination may be set.
type AttachResult struct {
	// Linked is set when the attached block itself got linked.
	Linked bool

	// NotLinked is set when the block's parent is unknown and the
	// block was parked in the chain's not-linked map.
	NotLinked bool

	// CascadeLinked is set when at least one previously parked
	// block got linked as a result of this attachment.
	CascadeLinked bool

	// LongestChainAdvanced is set when the longest chain pointer moved.
	LongestChainAdvanced bool
}

func (result *AttachResult) String() string {
	var flags []string
	if result.Linked {
		flags = append(flags, "Linked")
	}
	if result.NotLinked {
		flags = append(flags, "NotLinked")
	}
	if result.CascadeLinked {
		flags = append(flags, "CascadeLinked")
	}
	if result.LongestChainAdvanced {
		flags = append(flags, "LongestChainAdvanced")
	}
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(flags, "|")
}
