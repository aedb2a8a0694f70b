package testutils

import (
	"encoding/binary"
	"testing"

	"github.com/kaspanet/chaind/domain/chainstate/database"
	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/domain/chainstate/model/externalapi"
	"github.com/kaspanet/chaind/domain/chainstate/utils/staging"
	"github.com/kaspanet/chaind/infrastructure/db/database/ldb"
	"golang.org/x/crypto/blake2b"
)

// NewTestDatabase opens an in-memory leveldb instance wrapped as a
// model.DBManager. The returned teardown func closes it.
func NewTestDatabase(t *testing.T, testName string) (dbManager model.DBManager, teardown func()) {
	db, err := ldb.NewLevelDBInMemory()
	if err != nil {
		t.Fatalf("%s: NewLevelDBInMemory: %+v", testName, err)
	}
	dbManager = database.New(db)
	return dbManager, func() {
		err := dbManager.Close()
		if err != nil {
			t.Fatalf("%s: Close: %+v", testName, err)
		}
	}
}

// CommitStagingArea commits stagingArea into dbManager and fails the
// test on error.
func CommitStagingArea(t *testing.T, testName string, dbManager model.DBManager, stagingArea *model.StagingArea) {
	err := staging.CommitAllChanges(dbManager, stagingArea)
	if err != nil {
		t.Fatalf("%s: CommitAllChanges: %+v", testName, err)
	}
}

// HashFromString derives a block hash from the given label.
func HashFromString(label string) *externalapi.DomainHash {
	hashBytes := blake2b.Sum256([]byte(label))
	return externalapi.NewDomainHashFromByteArray(&hashBytes)
}

// HashFromUint64 derives a block hash from the given number.
func HashFromUint64(n uint64) *externalapi.DomainHash {
	var nBytes [8]byte
	binary.LittleEndian.PutUint64(nBytes[:], n)
	hashBytes := blake2b.Sum256(nBytes[:])
	return externalapi.NewDomainHashFromByteArray(&hashBytes)
}

// NewBlockLink returns a not-yet-executed link of the given block.
func NewBlockLink(height uint64, blockHash, previousBlockHash *externalapi.DomainHash) *externalapi.BlockLink {
	return &externalapi.BlockLink{
		Height:            height,
		BlockHash:         blockHash,
		PreviousBlockHash: previousBlockHash,
		ExecutionStatus:   externalapi.StatusNotExecuted,
	}
}
