package store

import "encoding/json"

// Snapshot is the versioned wrapper around a schema value (C2). Used here
// with T = Schema. Every operation is pure — it returns a new record rather
// than mutating the receiver — so a structural mutation can compute the
// intermediate states entirely in memory and only ever serialize the final
// result once, inside the enclosing KV transaction.
//
// The glossary's language-neutral tagged variant is
// {Committed(v) | PendingDelete(txid,v) | PendingUpdate(txid,old,new)}, with
// only the committed branch visible to readers outside a transaction. This
// Go expression collapses that to a single struct: Value holds the current
// committed value (nil once tombstoned by Delete), and LastTxID records
// which transaction produced the current state — a structural mutation
// calls Delete to tombstone-and-capture the old value, computes the new
// schema outside the record, then calls Update on the result to install it.
// If the enclosing Badger transaction aborts, none of these intermediate
// values are ever written — the only byte written is the final
// json.Marshal of the record Update returns.
type Snapshot[T any] struct {
	Value    *T     `json:"value"`
	LastTxID uint64 `json:"last_txid"`
}

// NewSnapshot wraps v as the initial committed value of a fresh record.
func NewSnapshot[T any](v T) Snapshot[T] {
	return Snapshot[T]{Value: &v}
}

// Delete tombstones the current value, stamping it with txid, and returns
// the value that was current before the call (nil if none was present).
func (s Snapshot[T]) Delete(txid uint64) (Snapshot[T], *T) {
	prev := s.Value
	return Snapshot[T]{Value: nil, LastTxID: txid}, prev
}

// Update installs newVal as the value current to txid.
func (s Snapshot[T]) Update(txid uint64, newVal T) Snapshot[T] {
	v := newVal
	return Snapshot[T]{Value: &v, LastTxID: txid}
}

// Marshal serializes the record to its stable durable byte format.
// encoding/json, matching every other codec in the corpus this module is
// grounded on (RowCodec, TableInfoCodec, IndexValueCodec all use
// encoding/json) rather than introducing a binary format nothing else here
// uses.
func (s Snapshot[T]) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot deserializes bytes previously produced by Marshal.
// Deserialization errors here are fatal to the enclosing transaction per
// spec §4.2 — callers should propagate them as an abort, not recover locally.
func UnmarshalSnapshot[T any](data []byte) (Snapshot[T], error) {
	var s Snapshot[T]
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot[T]{}, err
	}
	return s, nil
}
