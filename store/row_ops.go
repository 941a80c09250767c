package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// InsertData inserts rows into table atomically: each row is issued a fresh
// row-id, written at data/<table>/<id>, and has every declared index entry
// applied via Index Sync, all inside one Badger transaction. Row DML does
// not take the structural lock (§4.3, Open Question 3) — it relies solely
// on Badger's own conflict detection on the keys it touches.
//
// Because InsertData always reads the committed schema fresh inside its own
// transaction, a row inserted concurrently with a CreateIndex/DropIndex scan
// picks up whichever schema is visible at that moment — see the Open
// Question 1 discussion in schema_ops.go.
func (a *Adapter) InsertData(table string, rows []Row) ([]uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return nil, err
	}

	ids := make([]uint64, len(rows))
	for i := range rows {
		id, err := a.nextRowID(table)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	err := a.db.Update(func(txn *badger.Txn) error {
		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		schema := snap.Value
		if schema == nil {
			return &ErrConflictTableNotFound{Table: table}
		}
		sync := NewIndexSync(table, schema)

		for i, row := range rows {
			data, err := encodeRow(row)
			if err != nil {
				return fmt.Errorf("store: encoding row for table %q: %w", table, err)
			}
			if err := txn.Set(rowKey(table, ids[i]), data); err != nil {
				return fmt.Errorf("store: writing row for table %q: %w", table, err)
			}
			if err := sync.Insert(txn, ids[i], row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RowUpdate is one (row_key, new_row) pair for UpdateData. Applied in the
// given order; no reordering of the input list is permitted.
type RowUpdate struct {
	RowID  uint64
	NewRow Row
}

// UpdateData atomically swaps in NewRow for each RowUpdate's prior value. If
// the prior value is missing — a concurrent delete of the row under update —
// the whole transaction aborts with ErrConflictOnEmptyIndexValueUpdate.
func (a *Adapter) UpdateData(table string, updates []RowUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		schema := snap.Value
		if schema == nil {
			return &ErrConflictTableNotFound{Table: table}
		}
		sync := NewIndexSync(table, schema)

		for _, u := range updates {
			key := rowKey(table, u.RowID)
			item, err := txn.Get(key)
			if err == badger.ErrKeyNotFound {
				return &ErrConflictOnEmptyIndexValueUpdate{Table: table, RowID: u.RowID}
			}
			if err != nil {
				return fmt.Errorf("store: reading row %d of table %q: %w", u.RowID, table, err)
			}
			var oldRow Row
			if err := item.Value(func(val []byte) error {
				oldRow, err = decodeRow(val)
				return err
			}); err != nil {
				return fmt.Errorf("store: decoding row %d of table %q: %w", u.RowID, table, err)
			}

			newData, err := encodeRow(u.NewRow)
			if err != nil {
				return fmt.Errorf("store: encoding row %d of table %q: %w", u.RowID, table, err)
			}
			if err := txn.Set(key, newData); err != nil {
				return fmt.Errorf("store: writing row %d of table %q: %w", u.RowID, table, err)
			}
			if err := sync.Update(txn, u.RowID, oldRow, u.NewRow); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteData atomically removes each row at keys, applying Index Sync's
// delete for each. If a key is already absent — a concurrent delete — the
// whole transaction aborts with ErrConflictOnEmptyIndexValueDelete.
func (a *Adapter) DeleteData(table string, rowIDs []uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		schema := snap.Value
		if schema == nil {
			return &ErrConflictTableNotFound{Table: table}
		}
		sync := NewIndexSync(table, schema)

		for _, id := range rowIDs {
			key := rowKey(table, id)
			item, err := txn.Get(key)
			if err == badger.ErrKeyNotFound {
				return &ErrConflictOnEmptyIndexValueDelete{Table: table, RowID: id}
			}
			if err != nil {
				return fmt.Errorf("store: reading row %d of table %q: %w", id, table, err)
			}
			var row Row
			if err := item.Value(func(val []byte) error {
				row, err = decodeRow(val)
				return err
			}); err != nil {
				return fmt.Errorf("store: decoding row %d of table %q: %w", id, table, err)
			}

			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("store: deleting row %d of table %q: %w", id, table, err)
			}
			if err := sync.Delete(txn, id, row); err != nil {
				return err
			}
		}
		return nil
	})
}
