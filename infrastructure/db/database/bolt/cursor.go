package bolt

import (
	"bytes"

	"github.com/kaspanet/chaind/infrastructure/db/database"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// BoltCursor iterates over the keys of a single database.Bucket.
type BoltCursor struct {
	tx         *bbolt.Tx
	ownsTx     bool
	boltCursor *bbolt.Cursor
	bucket     *database.Bucket
	prefix     []byte

	currentKey   []byte
	currentValue []byte
	isStarted    bool
	isClosed     bool
}

func newBoltCursor(tx *bbolt.Tx, bucket *database.Bucket, ownsTx bool) *BoltCursor {
	return &BoltCursor{
		tx:         tx,
		ownsTx:     ownsTx,
		boltCursor: tx.Bucket(rootBucketName).Cursor(),
		bucket:     bucket,
		prefix:     bucket.Path(),
	}
}

func (c *BoltCursor) setCurrent(key, value []byte) bool {
	if key == nil || !bytes.HasPrefix(key, c.prefix) {
		c.currentKey, c.currentValue = nil, nil
		return false
	}
	c.currentKey, c.currentValue = key, value
	return true
}

// Next moves the iterator to the next key/value pair. It returns whether the
// iterator is exhausted. Panics if the cursor is closed.
func (c *BoltCursor) Next() bool {
	if c.isClosed {
		panic("cannot call next on a closed cursor")
	}
	if !c.isStarted {
		return c.First()
	}
	if c.currentKey == nil {
		return false
	}
	return c.setCurrent(c.boltCursor.Next())
}

// First moves the iterator to the first key/value pair. It returns false if
// such a pair does not exist. Panics if the cursor is closed.
func (c *BoltCursor) First() bool {
	if c.isClosed {
		panic("cannot call first on a closed cursor")
	}
	c.isStarted = true
	return c.setCurrent(c.boltCursor.Seek(c.prefix))
}

// Seek moves the iterator to the first key/value pair whose key is greater
// than or equal to the given key. It returns ErrNotFound if such pair does not
// exist.
func (c *BoltCursor) Seek(key *database.Key) error {
	if c.isClosed {
		return errors.New("cannot seek a closed cursor")
	}
	c.isStarted = true
	keyBytes := key.Bytes()
	found := c.setCurrent(c.boltCursor.Seek(keyBytes))
	if !found || !bytes.Equal(c.currentKey, keyBytes) {
		return errors.Wrapf(database.ErrNotFound, "key %s not found", key)
	}
	return nil
}

// Key returns the key of the current key/value pair, or ErrNotFound if done.
func (c *BoltCursor) Key() (*database.Key, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the key of a closed cursor")
	}
	if c.currentKey == nil {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"key of an exhausted cursor")
	}
	suffix := bytes.TrimPrefix(c.currentKey, c.prefix)
	return c.bucket.Key(bytes.Clone(suffix)), nil
}

// Value returns the value of the current key/value pair, or ErrNotFound if done.
func (c *BoltCursor) Value() ([]byte, error) {
	if c.isClosed {
		return nil, errors.New("cannot get the value of a closed cursor")
	}
	if c.currentKey == nil {
		return nil, errors.Wrapf(database.ErrNotFound, "cannot get the "+
			"value of an exhausted cursor")
	}
	return bytes.Clone(c.currentValue), nil
}

// Close releases associated resources. If the cursor opened its
// own read transaction, that transaction is rolled back.
func (c *BoltCursor) Close() error {
	if c.isClosed {
		return errors.New("cannot close an already closed cursor")
	}
	c.isClosed = true
	if c.ownsTx {
		return errors.WithStack(c.tx.Rollback())
	}
	return nil
}
