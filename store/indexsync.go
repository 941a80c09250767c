package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// IndexSync (C4) is a pure view over a *Schema — it carries no mutable state
// of its own, only a reference to the schema it was built from and the
// table name that schema belongs to. Grounded on the teacher's
// IndexManager.AddToIndex/RemoveFromIndex, but generalized away from its
// one-key-per-(table,column,value) row-key list: here every row gets its own
// index key (index/<table>/<name>/<encoded-value><row-id>), so writes never
// need a read-modify-write on a shared list value.
type IndexSync struct {
	table  string
	schema *Schema
}

// NewIndexSync builds an Index Sync from a committed schema.
func NewIndexSync(table string, schema *Schema) *IndexSync {
	return &IndexSync{table: table, schema: schema}
}

// Insert writes, for every declared index, the index entry implied by row.
func (ix *IndexSync) Insert(txn *badger.Txn, rowID uint64, row Row) error {
	for _, def := range ix.schema.Indexes {
		if err := ix.insertOne(txn, def, rowID, row); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes, for every declared index, the index entry for row.
func (ix *IndexSync) Delete(txn *badger.Txn, rowID uint64, row Row) error {
	for _, def := range ix.schema.Indexes {
		if err := ix.deleteOne(txn, def, rowID, row); err != nil {
			return err
		}
	}
	return nil
}

// Update reconciles index entries between oldRow and newRow for every
// declared index: if the expression's value is unchanged, the entry is left
// alone; otherwise the old entry is removed and the new one inserted.
func (ix *IndexSync) Update(txn *badger.Txn, rowID uint64, oldRow, newRow Row) error {
	for _, def := range ix.schema.Indexes {
		oldVal, err := def.Expr.Eval(oldRow)
		if err != nil {
			return fmt.Errorf("store: index sync update eval old row: %w", err)
		}
		newVal, err := def.Expr.Eval(newRow)
		if err != nil {
			return fmt.Errorf("store: index sync update eval new row: %w", err)
		}
		if oldVal.Equal(newVal) {
			continue
		}
		if err := ix.deleteOne(txn, def, rowID, oldRow); err != nil {
			return err
		}
		if err := ix.insertOne(txn, def, rowID, newRow); err != nil {
			return err
		}
	}
	return nil
}

// InsertIndex targets a single index rather than iterating the whole schema,
// used only by create_index while backfilling scanned rows.
func (ix *IndexSync) InsertIndex(txn *badger.Txn, def IndexDef, rowID uint64, row Row) error {
	return ix.insertOne(txn, def, rowID, row)
}

// DeleteIndex targets a single index, used only by drop_index while removing
// every entry of the index being dropped.
func (ix *IndexSync) DeleteIndex(txn *badger.Txn, def IndexDef, rowID uint64, row Row) error {
	return ix.deleteOne(txn, def, rowID, row)
}

func (ix *IndexSync) insertOne(txn *badger.Txn, def IndexDef, rowID uint64, row Row) error {
	col, _ := ix.schema.Column(def.Expr.Column)
	val, err := def.Expr.Eval(row)
	if err != nil {
		return fmt.Errorf("store: index sync insert eval: %w", err)
	}
	encoded, err := encodeIndexValue(val, col)
	if err != nil {
		return fmt.Errorf("store: index sync insert encode: %w", err)
	}
	key := indexKey(ix.table, def.Name, encoded, rowID)
	if err := txn.Set(key, encodeRowID(rowID)); err != nil {
		return fmt.Errorf("store: index sync insert write: %w", err)
	}
	return nil
}

func (ix *IndexSync) deleteOne(txn *badger.Txn, def IndexDef, rowID uint64, row Row) error {
	col, _ := ix.schema.Column(def.Expr.Column)
	val, err := def.Expr.Eval(row)
	if err != nil {
		return fmt.Errorf("store: index sync delete eval: %w", err)
	}
	encoded, err := encodeIndexValue(val, col)
	if err != nil {
		return fmt.Errorf("store: index sync delete encode: %w", err)
	}
	key := indexKey(ix.table, def.Name, encoded, rowID)
	if err := txn.Delete(key); err != nil {
		return fmt.Errorf("store: index sync delete write: %w", err)
	}
	return nil
}
