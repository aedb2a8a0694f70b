package bolt

import (
	"bytes"
	"time"

	"github.com/kaspanet/chaind/infrastructure/db/database"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// rootBucketName is the single bbolt bucket that holds every
// chaind key. database.Bucket paths are flattened into the key.
var rootBucketName = []byte("chaind")

const openTimeout = 3 * time.Second

// BoltDB defines a thin wrapper around bbolt.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens a bbolt database file at the given path,
// creating it if it doesn't exist.
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening bolt database at %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucketName)
		return err
	})
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			log.Warnf("Failed closing bolt database at %s: %s", path, closeErr)
		}
		return nil, errors.Wrapf(err, "failed initializing bolt database at %s", path)
	}

	return &BoltDB{db: db}, nil
}

// Close closes the bbolt instance.
func (db *BoltDB) Close() error {
	return errors.WithStack(db.db.Close())
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (db *BoltDB) Put(key *database.Key, value []byte) error {
	err := db.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(rootBucketName).Put(key.Bytes(), value)
	})
	return errors.WithStack(err)
}

// Get gets the value for the given key. It returns
// ErrNotFound if the given key does not exist.
func (db *BoltDB) Get(key *database.Key) ([]byte, error) {
	var data []byte
	err := db.db.View(func(tx *bbolt.Tx) error {
		var err error
		data, err = get(tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Has returns true if the database does contains the
// given key.
func (db *BoltDB) Has(key *database.Key) (bool, error) {
	var exists bool
	err := db.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(rootBucketName).Get(key.Bytes()) != nil
		return nil
	})
	return exists, errors.WithStack(err)
}

// Delete deletes the value for the given key. Will not
// return an error if the key doesn't exist.
func (db *BoltDB) Delete(key *database.Key) error {
	err := db.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(rootBucketName).Delete(key.Bytes())
	})
	return errors.WithStack(err)
}

// Cursor begins a new cursor over the given bucket. The cursor
// holds a read transaction open until it is closed.
func (db *BoltDB) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	tx, err := db.db.Begin(false)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newBoltCursor(tx, bucket, true), nil
}

// get copies the value out of bbolt, since values returned from
// a bbolt bucket are only valid for the life of the transaction.
func get(tx *bbolt.Tx, key *database.Key) ([]byte, error) {
	value := tx.Bucket(rootBucketName).Get(key.Bytes())
	if value == nil {
		return nil, errors.Wrapf(database.ErrNotFound, "key %s not found", key)
	}
	return bytes.Clone(value), nil
}
