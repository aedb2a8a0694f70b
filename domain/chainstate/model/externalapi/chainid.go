package externalapi

import (
	"encoding/binary"
	"strconv"
)

// ChainID identifies an independent chain managed by the engine.
type ChainID uint32

// ChainIDSize is the size of a serialized ChainID in bytes.
const ChainIDSize = 4

// Bytes returns the big-endian serialization of the chain id.
func (id ChainID) Bytes() []byte {
	idBytes := make([]byte, ChainIDSize)
	binary.BigEndian.PutUint32(idBytes, uint32(id))
	return idBytes
}

func (id ChainID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
