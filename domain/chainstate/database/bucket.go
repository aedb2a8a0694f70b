package database

import (
	"bytes"

	"github.com/kaspanet/chaind/domain/chainstate/model"
	"github.com/kaspanet/chaind/infrastructure/db/database"
)

// MakeBucket creates a new bucket with the given path of sub-buckets.
func MakeBucket(path ...[]byte) model.DBBucket {
	return newDBBucket(database.MakeBucket(path...))
}

func dbBucketToDatabaseBucket(bucket model.DBBucket) *database.Bucket {
	if bucket, ok := bucket.(dbBucket); ok {
		return bucket.bucket
	}
	// A single segment holding the path without its final separator
	// yields the same Path.
	return database.MakeBucket(bytes.TrimSuffix(bucket.Path(), []byte("/")))
}

type dbBucket struct {
	bucket *database.Bucket
}

func (d dbBucket) Bucket(bucketBytes []byte) model.DBBucket {
	return newDBBucket(d.bucket.Bucket(bucketBytes))
}

func (d dbBucket) Key(suffix []byte) model.DBKey {
	return newDBKey(d.bucket.Key(suffix))
}

func (d dbBucket) Path() []byte {
	return d.bucket.Path()
}

func newDBBucket(bucket *database.Bucket) model.DBBucket {
	return dbBucket{bucket: bucket}
}
