package database_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kaspanet/chaind/infrastructure/db/database"
)

func TestTransactionCommitAndRollback(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionCommitAndRollback", testTransactionCommitAndRollback)
}

func testTransactionCommitAndRollback(t *testing.T, db database.Database, testName string) {
	committedKey := database.MakeBucket([]byte("bucket")).Key([]byte("committed"))
	rolledBackKey := database.MakeBucket([]byte("bucket")).Key([]byte("rolled-back"))

	// Put inside a committed transaction
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Put(committedKey, []byte("value"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}
	exists, err := db.Has(committedKey)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: uncommitted value "+
			"is unexpectedly visible", testName)
	}
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("%s: Commit "+
			"unexpectedly failed: %s", testName, err)
	}
	value, err := db.Get(committedKey)
	if err != nil {
		t.Fatalf("%s: Get "+
			"unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(value, []byte("value")) {
		t.Fatalf("%s: Get "+
			"returned wrong value: %s", testName, value)
	}

	// Put and delete inside a rolled back transaction
	dbTx, err = db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Put(rolledBackKey, []byte("value"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Delete(committedKey)
	if err != nil {
		t.Fatalf("%s: Delete "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("%s: Rollback "+
			"unexpectedly failed: %s", testName, err)
	}
	exists, err = db.Has(rolledBackKey)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: rolled back put "+
			"is unexpectedly visible", testName)
	}
	exists, err = db.Has(committedKey)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if !exists {
		t.Fatalf("%s: rolled back delete "+
			"unexpectedly removed the value", testName)
	}

	// RollbackUnlessClosed after Rollback is a no-op
	err = dbTx.RollbackUnlessClosed()
	if err != nil {
		t.Fatalf("%s: RollbackUnlessClosed "+
			"unexpectedly failed: %s", testName, err)
	}
}

func TestTransactionCloseErrors(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionCloseErrors", testTransactionCloseErrors)
}

func testTransactionCloseErrors(t *testing.T, db database.Database, testName string) {
	tests := []struct {
		name              string
		function          func(dbTx database.Transaction) error
		shouldReturnError bool
	}{
		{
			name: "Put",
			function: func(dbTx database.Transaction) error {
				return dbTx.Put(database.MakeBucket(nil).Key([]byte("key")), []byte("value"))
			},
			shouldReturnError: true,
		},
		{
			name: "Get",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Get(database.MakeBucket(nil).Key([]byte("key")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name: "Has",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Has(database.MakeBucket(nil).Key([]byte("key")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name: "Delete",
			function: func(dbTx database.Transaction) error {
				return dbTx.Delete(database.MakeBucket(nil).Key([]byte("key")))
			},
			shouldReturnError: true,
		},
		{
			name: "Cursor",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Cursor(database.MakeBucket([]byte("bucket")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name:              "Rollback",
			function:          database.Transaction.Rollback,
			shouldReturnError: true,
		},
		{
			name:              "Commit",
			function:          database.Transaction.Commit,
			shouldReturnError: true,
		},
		{
			name:              "RollbackUnlessClosed",
			function:          database.Transaction.RollbackUnlessClosed,
			shouldReturnError: false,
		},
	}

	for _, test := range tests {
		dbTx, err := db.Begin()
		if err != nil {
			t.Fatalf("%s: Begin "+
				"unexpectedly failed: %s", testName, err)
		}
		err = dbTx.Rollback()
		if err != nil {
			t.Fatalf("%s: Rollback "+
				"unexpectedly failed: %s", testName, err)
		}

		err = test.function(dbTx)
		if test.shouldReturnError {
			if err == nil {
				t.Fatalf("%s: %s "+
					"unexpectedly succeeded", testName, test.name)
			}
			if !strings.Contains(err.Error(), "closed transaction") {
				t.Fatalf("%s: %s "+
					"returned wrong error: %s", testName, test.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %s "+
				"unexpectedly failed: %s", testName, test.name, err)
		}
	}
}
