package store

import "fmt"

// ColumnType is the declared type of a column, mirroring the closed Value
// kinds it accepts.
type ColumnType uint8

const (
	TypeString ColumnType = iota
	TypeInt64
	TypeFloat64
	TypeBool
	TypeTime
)

// Column is a single column definition within a Schema. Collation only
// applies to TypeString columns; empty means binary (raw byte order).
// Grounded on the teacher's domain.ColumnInfo, narrowed to the fields this
// adapter actually needs (no foreign keys, generated columns, or MySQL
// auto-increment flags — those belong to the higher-level Store this
// component explicitly does not provide).
type Column struct {
	Name      string     `json:"name"`
	Type      ColumnType `json:"type"`
	Nullable  bool       `json:"nullable"`
	Collation string     `json:"collation,omitempty"`
}

// Order is the declared sort capability of an index.
type Order uint8

const (
	OrderAsc Order = iota
	OrderDesc
	OrderBoth
)

// Expr is the index expression. The distilled spec's Non-goal excludes a
// general expression evaluator; this is the smallest serializable stand-in
// that still lets Index Sync call expr_I(row) — a single column reference.
type Expr struct {
	Column string `json:"column"`
}

// Eval evaluates the expression against a row.
func (e Expr) Eval(row Row) (Value, error) {
	v, ok := row[e.Column]
	if !ok {
		return Value{}, fmt.Errorf("store: column %q not present in row", e.Column)
	}
	return v, nil
}

// IndexDef is one declared secondary index.
type IndexDef struct {
	Name  string `json:"name"`
	Expr  Expr   `json:"expr"`
	Order Order  `json:"order"`
}

// Schema is the table descriptor wrapped by a Snapshot Record at
// schema/<table>. Grounded on the teacher's domain.TableInfo, with
// ForeignKeyInfo/generated-column support dropped (out of this component's
// scope) and Indexes added (the teacher keeps indexes in a separate
// IndexManager; this spec declares them inline on the schema itself).
type Schema struct {
	Table   string     `json:"table"`
	Columns []Column   `json:"columns"`
	Indexes []IndexDef `json:"indexes"`
}

// Clone deep-copies a schema so callers (and Snapshot Record history) never
// alias slices across mutations, mirroring domain.TableInfo.Clone.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Table: s.Table}
	out.Columns = append([]Column(nil), s.Columns...)
	out.Indexes = append([]IndexDef(nil), s.Indexes...)
	return out
}

// Column looks up a column definition by name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasIndex reports whether an index of the given name is declared.
func (s *Schema) HasIndex(name string) bool {
	_, ok := s.FindIndex(name)
	return ok
}

// FindIndex returns the index definition by name, if declared.
func (s *Schema) FindIndex(name string) (IndexDef, bool) {
	for _, ix := range s.Indexes {
		if ix.Name == name {
			return ix, true
		}
	}
	return IndexDef{}, false
}

// WithIndexAdded returns a new schema with ix appended. Does not check for
// name collisions — callers (create_index) must check first.
func (s *Schema) WithIndexAdded(ix IndexDef) *Schema {
	out := s.Clone()
	out.Indexes = append(out.Indexes, ix)
	return out
}

// WithIndexRemoved returns a new schema with every index named name removed,
// plus the removed definitions, mirroring drop_index's "partition indexes
// into (removed, kept)".
func (s *Schema) WithIndexRemoved(name string) (remaining *Schema, removed []IndexDef) {
	out := s.Clone()
	kept := out.Indexes[:0]
	for _, ix := range out.Indexes {
		if ix.Name == name {
			removed = append(removed, ix)
			continue
		}
		kept = append(kept, ix)
	}
	out.Indexes = kept
	return out, removed
}
