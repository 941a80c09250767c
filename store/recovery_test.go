package store

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIndexLeavesNoDanglingMarkerAfterRecovery(t *testing.T) {
	a := openTestAdapter(t)
	require.NoError(t, a.InsertSchema(*baseSchema()))
	require.NoError(t, a.CreateIndex("orders", "by_id", Expr{Column: "id"}, OrderAsc))

	require.NoError(t, a.RecoverDanglingSchemaChanges())

	var markers [][]byte
	require.NoError(t, a.db.View(func(txn *badger.Txn) error {
		prefix := tempSchemaPrefix()
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			markers = append(markers, append([]byte(nil), it.Item().Key()...))
		}
		return nil
	}))
	assert.Empty(t, markers)
}

func TestRecoverDanglingSchemaChangesOnEmptyStore(t *testing.T) {
	a := openTestAdapter(t)
	assert.NoError(t, a.RecoverDanglingSchemaChanges())
}
