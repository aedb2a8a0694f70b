/*
Package database defines the interfaces through which chaind talks to
its key-value storage.

Drivers live in sub-packages: ldb wraps goleveldb and is the default,
bolt wraps bbolt. Keys are composed of buckets and a suffix, e.g.

	bucket := database.MakeBucket([]byte("block-links")).Bucket(chainIDBytes)
	key := bucket.Key(blockHash.ByteSlice())

A Transaction accumulates writes and applies them atomically on Commit.
*/
package database
