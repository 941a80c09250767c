package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// InsertSchema is a single-key write: schema is wrapped in a fresh Snapshot
// Record and serialized to schema/<table>. No KV transaction is required —
// matching store_mut.rs's insert_schema, which is a plain tree.insert, not
// a transaction(F) closure. Does not reject duplicate table names; a
// higher-level DDL layer (out of scope here) should check first.
func (a *Adapter) InsertSchema(schema Schema) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(schema.Table); err != nil {
		return err
	}
	for _, col := range schema.Columns {
		if err := validateIdentifier(col.Name); err != nil {
			return err
		}
	}
	for _, ix := range schema.Indexes {
		if err := validateIdentifier(ix.Name); err != nil {
			return err
		}
	}

	snap := NewSnapshot(schema)
	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("store: encoding schema %q: %w", schema.Table, err)
	}
	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(schemaKey(schema.Table), data); err != nil {
			return fmt.Errorf("store: writing schema %q: %w", schema.Table, err)
		}
		return nil
	})
}

// DeleteSchema scans data/<table>/ and removes every row, then removes
// schema/<table>. Implemented as separate single-key writes rather than one
// transaction — store_mut.rs's delete_schema does the same, a deliberate
// scope choice because full table drops are terminal and partial failure
// just means a retryable half-deleted table, not a corrupted live one.
//
// Open-Question-2 decision (§9 SPEC_FULL): rather than silently leaving
// orphaned index entries, DeleteSchema refuses to run while the schema still
// declares indexes — callers MUST DropIndex each one first.
func (a *Adapter) DeleteSchema(table string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return err
	}

	var schema *Schema
	err := a.db.View(func(txn *badger.Txn) error {
		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		schema = snap.Value
		return nil
	})
	if err != nil {
		return err
	}
	if schema == nil {
		return &ErrConflictTableNotFound{Table: table}
	}
	if len(schema.Indexes) > 0 {
		names := make([]string, len(schema.Indexes))
		for i, ix := range schema.Indexes {
			names[i] = ix.Name
		}
		return &ErrSchemaHasIndexes{Table: table, Indexes: names}
	}

	prefix := rowPrefix(table)
	for {
		var keys [][]byte
		err := a.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			defer it.Close()
			for it.Seek(prefix); it.ValidForPrefix(prefix) && len(keys) < 1000; it.Next() {
				keys = append(keys, append([]byte(nil), it.Item().Key()...))
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("store: scanning rows of table %q: %w", table, err)
		}
		if len(keys) == 0 {
			break
		}
		for _, k := range keys {
			if err := a.db.Update(func(txn *badger.Txn) error {
				return txn.Delete(k)
			}); err != nil {
				return fmt.Errorf("store: deleting row of table %q: %w", table, err)
			}
		}
	}

	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(schemaKey(table)); err != nil {
			return fmt.Errorf("store: deleting schema %q: %w", table, err)
		}
		return nil
	})
}

// scannedRow is one row read during the pre-transaction scan phase of
// CreateIndex/DropIndex. Collecting these into a slice before the
// transaction starts mirrors scan_data(...).collect::<Vec<_>>() in the
// original Rust — Badger aborts transactions that touch too many keys or
// run too long, so the read phase is kept out of the write phase entirely.
type scannedRow struct {
	id  uint64
	row Row
}

func (a *Adapter) scanTableRows(table string) ([]scannedRow, error) {
	var rows []scannedRow
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := rowPrefix(table)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, ok := rowIDFromKey(table, item.Key())
			if !ok {
				continue
			}
			var row Row
			if err := item.Value(func(val []byte) error {
				var err error
				row, err = decodeRow(val)
				return err
			}); err != nil {
				return fmt.Errorf("store: decoding row of table %q: %w", table, err)
			}
			rows = append(rows, scannedRow{id: id, row: row})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateIndex performs a full-table reindex inside one structural
// transaction. Rows are scanned outside the transaction first (see
// scanTableRows); the transaction itself only acquires the structural lock,
// tombstones and rewrites the schema Snapshot Record, backfills the scanned
// rows into the new index, and leaves a temp marker.
//
// Open Question 1 (§9 SPEC_FULL, "scan-then-transact race"). A row inserted
// after the scan but before this transaction commits is the one case that
// can still be missed: it postdates the scan (so it isn't in rows) and
// predates the schema commit (so InsertData, which always reads the
// committed schema fresh, still sees the old schema and never applies the
// new index to it). This module does not close that gap — it is recorded,
// not silently hidden, exactly as the spec's own Open Question leaves it.
// Every other ordering is covered: a row inserted before the scan is
// backfilled here, and a row inserted after this transaction commits is
// indexed by InsertData itself once the new schema becomes visible.
func (a *Adapter) CreateIndex(table, indexName string, expr Expr, order Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return err
	}
	if err := validateIdentifier(indexName); err != nil {
		return err
	}

	rows, err := a.scanTableRows(table)
	if err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		txid, err := acquireLock(txn, &a.counter, a.owner, a.cfg.LockLeaseDuration, a.cfg.Clock, table, a.warn)
		if err != nil {
			return err
		}

		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		snap, oldSchema := snap.Delete(txid)
		if oldSchema == nil {
			return &ErrConflictTableNotFound{Table: table}
		}
		if oldSchema.HasIndex(indexName) {
			return &ErrIndexNameAlreadyExists{Table: table, Index: indexName}
		}

		newIndex := IndexDef{Name: indexName, Expr: expr, Order: order}
		newSchema := oldSchema.WithIndexAdded(newIndex)
		snap = snap.Update(txid, *newSchema)

		sync := NewIndexSync(table, newSchema)
		for _, r := range rows {
			if err := sync.InsertIndex(txn, newIndex, r.id, r.row); err != nil {
				return err
			}
		}

		if err := writeSchemaSnapshot(txn, table, snap); err != nil {
			return err
		}
		if err := txn.Set(tempSchemaKey(txid, table), schemaKey(table)); err != nil {
			return fmt.Errorf("store: writing temp marker for table %q: %w", table, err)
		}
		return releaseLock(txn)
	})
}

// DropIndex is symmetric to CreateIndex: rows are scanned outside the
// transaction, then the transaction acquires the lock, tombstones and
// rewrites the schema dropping the named index, and removes every index
// entry of the removed index for the scanned rows.
func (a *Adapter) DropIndex(table, indexName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validateIdentifier(table); err != nil {
		return err
	}
	if err := validateIdentifier(indexName); err != nil {
		return err
	}

	rows, err := a.scanTableRows(table)
	if err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		txid, err := acquireLock(txn, &a.counter, a.owner, a.cfg.LockLeaseDuration, a.cfg.Clock, table, a.warn)
		if err != nil {
			return err
		}

		snap, err := readSchemaSnapshot(txn, table)
		if err != nil {
			return err
		}
		snap, oldSchema := snap.Delete(txid)
		if oldSchema == nil {
			return &ErrConflictTableNotFound{Table: table}
		}

		newSchema, removed := oldSchema.WithIndexRemoved(indexName)
		if len(removed) == 0 {
			return &ErrIndexNameDoesNotExist{Table: table, Index: indexName}
		}
		snap = snap.Update(txid, *newSchema)

		sync := NewIndexSync(table, oldSchema)
		for _, r := range rows {
			if err := sync.DeleteIndex(txn, removed[0], r.id, r.row); err != nil {
				return err
			}
		}

		if err := writeSchemaSnapshot(txn, table, snap); err != nil {
			return err
		}
		if err := txn.Set(tempSchemaKey(txid, table), schemaKey(table)); err != nil {
			return fmt.Errorf("store: writing temp marker for table %q: %w", table, err)
		}
		return releaseLock(txn)
	})
}

// warn routes a message to the configured WarningLogger, the one place this
// module logs at all (lock-lease reclamation, dangling temp markers) — see
// Config.WarningLogger's doc comment for why nothing else on this path logs.
func (a *Adapter) warn(msg string) {
	if a.cfg.WarningLogger != nil {
		a.cfg.WarningLogger.Print(msg)
	}
}
