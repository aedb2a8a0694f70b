package ldb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/kaspanet/chaind/infrastructure/db/database"
)

func chainBucket(chainID uint32) *database.Bucket {
	chainIDBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(chainIDBytes, chainID)
	return database.MakeBucket([]byte("chain-index")).Bucket(chainIDBytes)
}

func heightKey(bucket *database.Bucket, height uint64) *database.Key {
	heightBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBytes, height)
	return bucket.Key(heightBytes)
}

func checkCursorEntry(t *testing.T, testName string, cursor database.Cursor,
	expectedKey *database.Key, expectedValue []byte) {

	cursorKey, err := cursor.Key()
	if err != nil {
		t.Fatalf("%s: Key unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(cursorKey.Bytes(), expectedKey.Bytes()) {
		t.Fatalf("%s: Key returned wrong key. Want: %s, got: %s", testName, expectedKey, cursorKey)
	}
	cursorValue, err := cursor.Value()
	if err != nil {
		t.Fatalf("%s: Value unexpectedly failed for key %s: %s", testName, cursorKey, err)
	}
	if !bytes.Equal(cursorValue, expectedValue) {
		t.Fatalf("%s: Value returned wrong value for key %s. Want: %s, got: %s",
			testName, cursorKey, expectedValue, cursorValue)
	}
}

// TestCursorHeightOrder writes index entries of two chains out of order
// and expects a cursor over one chain to return only that chain's
// entries, sorted by height.
func TestCursorHeightOrder(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorHeightOrder")
	defer teardownFunc()

	heights := []uint64{300, 1, 256, 2, 65536}
	for _, chainID := range []uint32{1, 256} {
		for _, height := range heights {
			value := []byte(fmt.Sprintf("chain%d-block%d", chainID, height))
			err := ldb.Put(heightKey(chainBucket(chainID), height), value)
			if err != nil {
				t.Fatalf("TestCursorHeightOrder: Put unexpectedly failed: %s", err)
			}
		}
	}

	cursor, err := ldb.Cursor(chainBucket(1))
	if err != nil {
		t.Fatalf("TestCursorHeightOrder: Cursor unexpectedly failed: %s", err)
	}
	defer func() {
		err := cursor.Close()
		if err != nil {
			t.Fatalf("TestCursorHeightOrder: Close unexpectedly failed: %s", err)
		}
	}()

	expectedHeights := []uint64{1, 2, 256, 300, 65536}
	i := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		if i >= len(expectedHeights) {
			t.Fatalf("TestCursorHeightOrder: cursor returned more than %d entries", len(expectedHeights))
		}
		height := expectedHeights[i]
		checkCursorEntry(t, "TestCursorHeightOrder", cursor, heightKey(chainBucket(1), height),
			[]byte(fmt.Sprintf("chain1-block%d", height)))
		i++
	}
	if i != len(expectedHeights) {
		t.Fatalf("TestCursorHeightOrder: cursor returned %d entries, want %d", i, len(expectedHeights))
	}

	// An exhausted cursor has no current entry
	_, err = cursor.Key()
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestCursorHeightOrder: Key of an exhausted cursor returned wrong error: %v", err)
	}
	_, err = cursor.Value()
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestCursorHeightOrder: Value of an exhausted cursor returned wrong error: %v", err)
	}
}

func TestCursorSeek(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestCursorSeek")
	defer teardownFunc()

	bucket := chainBucket(7)
	for height := uint64(1); height <= 5; height++ {
		err := ldb.Put(heightKey(bucket, height*10), []byte(fmt.Sprintf("block%d", height*10)))
		if err != nil {
			t.Fatalf("TestCursorSeek: Put unexpectedly failed: %s", err)
		}
	}

	cursor, err := ldb.Cursor(bucket)
	if err != nil {
		t.Fatalf("TestCursorSeek: Cursor unexpectedly failed: %s", err)
	}
	defer cursor.Close()

	err = cursor.Seek(heightKey(bucket, 30))
	if err != nil {
		t.Fatalf("TestCursorSeek: Seek unexpectedly failed: %s", err)
	}
	checkCursorEntry(t, "TestCursorSeek", cursor, heightKey(bucket, 30), []byte("block30"))
	if !cursor.Next() {
		t.Fatalf("TestCursorSeek: Next after Seek unexpectedly returned false")
	}
	checkCursorEntry(t, "TestCursorSeek", cursor, heightKey(bucket, 40), []byte("block40"))

	// Seek only succeeds on an exact key
	err = cursor.Seek(heightKey(bucket, 35))
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestCursorSeek: Seek to a missing height returned wrong error: %v", err)
	}
	err = cursor.Seek(heightKey(chainBucket(8), 10))
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestCursorSeek: Seek outside the cursor's bucket returned wrong error: %v", err)
	}
}

func TestClosedCursor(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestClosedCursor")
	defer teardownFunc()

	bucket := chainBucket(1)
	err := ldb.Put(heightKey(bucket, 1), []byte("genesis"))
	if err != nil {
		t.Fatalf("TestClosedCursor: Put unexpectedly failed: %s", err)
	}
	cursor, err := ldb.Cursor(bucket)
	if err != nil {
		t.Fatalf("TestClosedCursor: Cursor unexpectedly failed: %s", err)
	}
	err = cursor.Close()
	if err != nil {
		t.Fatalf("TestClosedCursor: Close unexpectedly failed: %s", err)
	}

	failingCalls := map[string]func() error{
		"Seek": func() error { return cursor.Seek(heightKey(bucket, 1)) },
		"Key": func() error {
			_, err := cursor.Key()
			return err
		},
		"Value": func() error {
			_, err := cursor.Value()
			return err
		},
		"Close": cursor.Close,
	}
	for name, call := range failingCalls {
		err := call()
		if err == nil || !strings.Contains(err.Error(), "closed cursor") {
			t.Fatalf("TestClosedCursor: %s returned wrong error: %v", name, err)
		}
	}

	panickingCalls := map[string]func() bool{
		"First": cursor.First,
		"Next":  cursor.Next,
	}
	for name, call := range panickingCalls {
		func() {
			defer func() {
				panicErr := recover()
				if panicErr == nil || !strings.Contains(fmt.Sprint(panicErr), "closed cursor") {
					t.Fatalf("TestClosedCursor: %s did not panic with a closed cursor error: %v", name, panicErr)
				}
			}()
			call()
		}()
	}
}
