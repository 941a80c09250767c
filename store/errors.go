package store

import "fmt"

// Error taxonomy (§7), grounded on pkg/resource/domain/errors.go's style: one
// struct type per error kind with a formatted Error() string, matchable with
// errors.As. Underlying-store and serialization failures are not given their
// own type here — they are wrapped with fmt.Errorf("...: %w", err) at the
// call site, exactly as datasource.go does throughout, since the teacher
// never gives those a dedicated struct either.

// ErrTableNotFound means the schema key itself is absent.
type ErrTableNotFound struct {
	Table string
}

func (e *ErrTableNotFound) Error() string {
	return fmt.Sprintf("store: table %q not found", e.Table)
}

// ErrConflictTableNotFound means the schema key is present but its Snapshot
// Record's current value is absent — a concurrent delete_schema observed
// mid-transaction. Distinguished from ErrTableNotFound per §7/§12.
type ErrConflictTableNotFound struct {
	Table string
}

func (e *ErrConflictTableNotFound) Error() string {
	return fmt.Sprintf("store: table %q concurrently deleted", e.Table)
}

// ErrIndexNameAlreadyExists is returned by create_index when an index of
// that name is already declared on the schema.
type ErrIndexNameAlreadyExists struct {
	Table, Index string
}

func (e *ErrIndexNameAlreadyExists) Error() string {
	return fmt.Sprintf("store: index %q already exists on table %q", e.Index, e.Table)
}

// ErrIndexNameDoesNotExist is returned by drop_index when no index of that
// name is declared.
type ErrIndexNameDoesNotExist struct {
	Table, Index string
}

func (e *ErrIndexNameDoesNotExist) Error() string {
	return fmt.Sprintf("store: index %q does not exist on table %q", e.Index, e.Table)
}

// ErrConflictOnEmptyIndexValueUpdate signals that update_data found no prior
// value at a row key it expected to swap — a concurrent delete of that row.
type ErrConflictOnEmptyIndexValueUpdate struct {
	Table string
	RowID uint64
}

func (e *ErrConflictOnEmptyIndexValueUpdate) Error() string {
	return fmt.Sprintf("store: update conflict: row %d of table %q has no prior value", e.RowID, e.Table)
}

// ErrConflictOnEmptyIndexValueDelete signals that delete_data found the key
// already absent — a concurrent delete of that row.
type ErrConflictOnEmptyIndexValueDelete struct {
	Table string
	RowID uint64
}

func (e *ErrConflictOnEmptyIndexValueDelete) Error() string {
	return fmt.Sprintf("store: delete conflict: row %d of table %q is already absent", e.RowID, e.Table)
}

// ErrLockConflict means the structural lock was held by a live writer; the
// caller SHOULD retry.
type ErrLockConflict struct {
	Table string
}

func (e *ErrLockConflict) Error() string {
	return fmt.Sprintf("store: structural lock held by another writer for table %q", e.Table)
}

// ErrSchemaHasIndexes is the Open-Question-2 decision (§9 of SPEC_FULL):
// delete_schema refuses to drop a table that still declares indexes, rather
// than silently leaving orphaned index entries behind.
type ErrSchemaHasIndexes struct {
	Table   string
	Indexes []string
}

func (e *ErrSchemaHasIndexes) Error() string {
	return fmt.Sprintf("store: table %q still has indexes %v, drop them before deleting the schema", e.Table, e.Indexes)
}
