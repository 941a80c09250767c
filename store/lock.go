package store

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/badgerql/txschema/pkg/utils"
)

// lockToken is the value stored at the single reserved lock key. Owner
// identifies the writer holding it (github.com/google/uuid, already a direct
// teacher dependency); ExpiresAt bounds how long a crashed writer can be
// assumed to still hold it live.
type lockToken struct {
	Owner     uuid.UUID `json:"owner"`
	TxID      uint64    `json:"txid"`
	ExpiresAt time.Time `json:"expires_at"`
}

// txidCounter is the monotonic counter backing C3's "txid". Each Adapter owns
// its own counter, so txids are unique within one Adapter but not across
// several Adapters in the same process; every counter starts again at 1.
// Grounded on mysql/mvcc/manager.go's nextXID (same atomic-counter shape),
// adapted because that package's XID is an MVCC read timestamp and this
// counter explicitly must never be used as one — it only stamps Snapshot
// Records and temp markers.
type txidCounter struct {
	n atomic.Uint64
}

func (c *txidCounter) next() uint64 {
	return c.n.Add(1)
}

// acquireLock runs inside the Badger transaction closure exactly as spec
// requires (acquire(tree, state) -> (txid, token)): it must never perform
// I/O outside txn, since Badger may retry the closure body on conflict.
// If the key is absent or its token has expired per leaseDuration/clock, it
// installs a fresh token for owner and returns a freshly issued txid. If a
// live token is present, it returns ErrLockConflict, which aborts the
// enclosing transaction; the error reaches the caller, which may retry.
// Nothing here retries.
func acquireLock(txn *badger.Txn, counter *txidCounter, owner uuid.UUID, leaseDuration time.Duration, clock utils.TimeProvider, table string, warn func(string)) (uint64, error) {
	key := lockKeyBytes()
	item, err := txn.Get(key)
	if err != nil && err != badger.ErrKeyNotFound {
		return 0, fmt.Errorf("store: reading lock key: %w", err)
	}

	if err == nil {
		var tok lockToken
		readErr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tok)
		})
		if readErr != nil {
			return 0, fmt.Errorf("store: decoding lock token: %w", readErr)
		}
		if clock.Now().Before(tok.ExpiresAt) {
			return 0, &ErrLockConflict{Table: table}
		}
		if warn != nil {
			warn(fmt.Sprintf("store: reclaiming structural lock from expired owner %s (expired %s)", tok.Owner, tok.ExpiresAt))
		}
	}

	txid := counter.next()
	newTok := lockToken{Owner: owner, TxID: txid, ExpiresAt: clock.Now().Add(leaseDuration)}
	data, err := json.Marshal(newTok)
	if err != nil {
		return 0, fmt.Errorf("store: encoding lock token: %w", err)
	}
	if err := txn.Set(key, data); err != nil {
		return 0, fmt.Errorf("store: writing lock token: %w", err)
	}
	return txid, nil
}

// releaseLock clears the lock key, run at the end of a successful structural
// transaction closure so the next writer does not need to wait out the
// lease.
func releaseLock(txn *badger.Txn) error {
	err := txn.Delete(lockKeyBytes())
	if err != nil && err != badger.ErrKeyNotFound {
		return fmt.Errorf("store: releasing lock: %w", err)
	}
	return nil
}
