package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDeleteThenUpdate(t *testing.T) {
	schema := *baseSchema()
	snap := NewSnapshot(schema)
	require.NotNil(t, snap.Value)
	assert.Equal(t, "orders", snap.Value.Table)

	tombstoned, prev := snap.Delete(5)
	require.NotNil(t, prev)
	assert.Nil(t, tombstoned.Value)
	assert.Equal(t, uint64(5), tombstoned.LastTxID)
	assert.Equal(t, "orders", prev.Table)

	next := schema
	next.Indexes = append(next.Indexes, IndexDef{Name: "by_id", Expr: Expr{Column: "id"}})
	committed := tombstoned.Update(5, next)

	require.NotNil(t, committed.Value)
	assert.Len(t, committed.Value.Indexes, 2)
	assert.Equal(t, uint64(5), committed.LastTxID)
}

func TestSnapshotMarshalRoundTrip(t *testing.T) {
	schema := *baseSchema()
	snap := NewSnapshot(schema).Update(1, schema)

	data, err := snap.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalSnapshot[Schema](data)
	require.NoError(t, err)
	require.NotNil(t, restored.Value)
	assert.Equal(t, schema.Table, restored.Value.Table)
	assert.Equal(t, uint64(1), restored.LastTxID)
}

func TestSnapshotDeleteOnAlreadyEmptyRecord(t *testing.T) {
	var snap Snapshot[Schema]
	tombstoned, prev := snap.Delete(1)
	assert.Nil(t, prev)
	assert.Nil(t, tombstoned.Value)
}
