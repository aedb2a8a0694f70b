package bolt

import (
	"github.com/kaspanet/chaind/infrastructure/db/database"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

type operation struct {
	key      []byte
	value    []byte
	isDelete bool
}

// BoltTransaction reads from a bbolt read-only transaction and
// buffers writes in memory. The buffered writes are applied in a
// single read-write transaction on Commit.
//
// Note: as with the leveldb driver, data put into the transaction
// is not visible to gets within the same transaction.
type BoltTransaction struct {
	db         *BoltDB
	readTx     *bbolt.Tx
	operations []operation
	isClosed   bool
}

// Begin begins a new transaction.
func (db *BoltDB) Begin() (database.Transaction, error) {
	readTx, err := db.db.Begin(false)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &BoltTransaction{
		db:       db,
		readTx:   readTx,
		isClosed: false,
	}, nil
}

// Commit commits whatever changes were made to the database
// within this transaction.
func (tx *BoltTransaction) Commit() error {
	if tx.isClosed {
		return errors.New("cannot commit a closed transaction")
	}
	tx.isClosed = true

	// The read transaction must be released before opening a
	// read-write one, otherwise a remap of the data file would
	// wait on it forever.
	err := tx.readTx.Rollback()
	if err != nil {
		return errors.WithStack(err)
	}

	err = tx.db.db.Update(func(boltTx *bbolt.Tx) error {
		bucket := boltTx.Bucket(rootBucketName)
		for _, op := range tx.operations {
			if op.isDelete {
				err := bucket.Delete(op.key)
				if err != nil {
					return err
				}
				continue
			}
			err := bucket.Put(op.key, op.value)
			if err != nil {
				return err
			}
		}
		return nil
	})
	tx.operations = nil
	return errors.WithStack(err)
}

// Rollback rolls back whatever changes were made to the
// database within this transaction.
func (tx *BoltTransaction) Rollback() error {
	if tx.isClosed {
		return errors.New("cannot rollback a closed transaction")
	}
	tx.isClosed = true
	tx.operations = nil
	return errors.WithStack(tx.readTx.Rollback())
}

// RollbackUnlessClosed rolls back changes that were made to
// the database within the transaction, unless the transaction
// had already been closed using either Rollback or Commit.
func (tx *BoltTransaction) RollbackUnlessClosed() error {
	if tx.isClosed {
		return nil
	}
	return tx.Rollback()
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (tx *BoltTransaction) Put(key *database.Key, value []byte) error {
	if tx.isClosed {
		return errors.New("cannot put into a closed transaction")
	}
	tx.operations = append(tx.operations, operation{
		key:   key.Bytes(),
		value: append([]byte(nil), value...),
	})
	return nil
}

// Get gets the value for the given key. It returns
// ErrNotFound if the given key does not exist.
func (tx *BoltTransaction) Get(key *database.Key) ([]byte, error) {
	if tx.isClosed {
		return nil, errors.New("cannot get from a closed transaction")
	}
	return get(tx.readTx, key)
}

// Has returns true if the database does contains the
// given key.
func (tx *BoltTransaction) Has(key *database.Key) (bool, error) {
	if tx.isClosed {
		return false, errors.New("cannot has from a closed transaction")
	}
	return tx.readTx.Bucket(rootBucketName).Get(key.Bytes()) != nil, nil
}

// Delete deletes the value for the given key. Will not
// return an error if the key doesn't exist.
func (tx *BoltTransaction) Delete(key *database.Key) error {
	if tx.isClosed {
		return errors.New("cannot delete from a closed transaction")
	}
	tx.operations = append(tx.operations, operation{key: key.Bytes(), isDelete: true})
	return nil
}

// Cursor begins a new cursor over the given bucket. The cursor
// reads from the transaction's read view and must be closed
// before the transaction is committed.
func (tx *BoltTransaction) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	if tx.isClosed {
		return nil, errors.New("cannot open a cursor from a closed transaction")
	}
	return newBoltCursor(tx.readTx, bucket, false), nil
}
