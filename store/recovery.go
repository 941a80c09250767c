package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// RecoverDanglingSchemaChanges scans temp_schema/ for markers left behind by
// CreateIndex/DropIndex. Every committed CreateIndex/DropIndex writes one
// marker and neither operation removes it; this sweep is the only code that
// does, and it removes every marker it finds. Because the marker is written in the same Badger transaction as the
// schema Snapshot Record update, its presence after an unclean restart never
// indicates a half-applied structural change — Badger's own atomicity
// already guarantees the schema write and the marker landed together, or
// neither did. The sweep exists only to clear stale markers and surface them
// to WarningLogger, not to repair anything.
//
// Grounded on migration.go's own startup-recovery pass over partially
// applied migration records, adapted to this module's much narrower
// guarantee (nothing to roll forward or back, only markers to clear).
func (a *Adapter) RecoverDanglingSchemaChanges() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var keys [][]byte
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := tempSchemaPrefix()
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, append([]byte(nil), it.Item().Key()...))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: scanning dangling schema markers: %w", err)
	}

	for _, key := range keys {
		txid, table, ok := parseTempSchemaKey(key)
		if !ok {
			continue
		}
		a.warn(fmt.Sprintf("store: clearing dangling structural-change marker for table %q (txid %d)", table, txid))
		if err := a.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		}); err != nil {
			return fmt.Errorf("store: clearing dangling marker for table %q: %w", table, err)
		}
	}
	return nil
}
