package model

// DBCursor walks the entries of a single bucket in key order, e.g. all
// block links of one chain.
type DBCursor interface {
	// Next advances to the following entry and reports whether one
	// exists. Panics once the cursor is closed.
	Next() bool

	// First rewinds to the first entry of the bucket and reports whether
	// the bucket has any. Panics once the cursor is closed.
	First() bool

	// Key returns the key of the current entry, or ErrNotFound past the
	// last one. The returned key is only valid until the next move.
	Key() (DBKey, error)

	// Value returns the serialized record of the current entry, or
	// ErrNotFound past the last one. The returned slice is only valid
	// until the next move and must not be modified.
	Value() ([]byte, error)

	// Close releases the underlying iterator.
	Close() error
}

// DBReader is the read side of the chain-state database. Stores read
// through it both from the database itself and from an open transaction.
type DBReader interface {
	// Get returns the record stored under key, or ErrNotFound.
	Get(key DBKey) ([]byte, error)

	// Has reports whether a record is stored under key.
	Has(key DBKey) (bool, error)

	// Cursor opens a cursor over the records of bucket.
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter is the write side the staging shards commit into
type DBWriter interface {
	DBReader

	// Put stores value under key, replacing any previous record.
	Put(key DBKey, value []byte) error

	// Delete removes the record under key. Missing keys are not an error.
	Delete(key DBKey) error
}

// DBTransaction groups the writes of one staging area so that an
// operation is applied to the chain state as a whole or not at all.
type DBTransaction interface {
	DBWriter

	// Rollback discards every write of the transaction.
	Rollback() error

	// Commit applies every write of the transaction.
	Commit() error

	// RollbackUnlessClosed discards the writes unless Commit or Rollback
	// already closed the transaction. It is meant to be deferred.
	RollbackUnlessClosed() error
}

// DBManager is the chain-state database as seen by ChainState
type DBManager interface {
	DBWriter

	// Begin opens a transaction for committing a staging area.
	Begin() (DBTransaction, error)

	// Close closes the underlying database driver.
	Close() error
}

// DBKey is a full record key: a bucket path followed by a suffix such as
// a block hash or a big-endian height.
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a key prefix, e.g. the block links of one chain id
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}
