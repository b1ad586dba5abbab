// Package table implements rows and the table that owns them: constraint
// enforcement on every mutation, predicate scans and schema migration.
package table

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/types"
)

// Predicate decides whether a scan yields a row. It must be a pure function
// of the row it is given.
type Predicate func(Row) bool

// Table owns a schema and an ordered collection of rows keyed by generated
// row ids. Every mutation is validate-then-commit: all checks run before
// anything is written, so a failed call leaves the table exactly as it was.
//
// A single RWMutex guards the schema and the row collection together, since
// schema updates must observe a consistent row set.
type Table struct {
	mu        sync.RWMutex
	name      string
	schema    schema.Schema
	rows      map[RowID]*Row
	order     []RowID
	nextID    RowID
	observers []Observer
}

// New creates an empty table governed by the given schema.
func New(name string, s schema.Schema) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		name:   name,
		schema: s,
		rows:   make(map[RowID]*Row),
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// Rename updates the table name. It has no row-level consequences; catalog
// bookkeeping lives in the database.
func (t *Table) Rename(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
}

// Schema returns the current schema.
func (t *Table) Schema() schema.Schema {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.schema
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// NextID returns the next row id the table will assign. Snapshots record it
// so ids are never reused after a restore.
func (t *Table) NextID() RowID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nextID
}

// Observe registers an observer for successful mutations.
func (t *Table) Observe(obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, obs)
}

// AddRow builds a row from the supplied values (materializing defaults),
// checks table-wide uniqueness and inserts it under a fresh id. The assigned
// id is returned; it increases monotonically across the table's lifetime
// even when rows are deleted in between.
func (t *Table) AddRow(values map[string]types.Value) (RowID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := NewRow(t.schema, values)
	if err != nil {
		return 0, err
	}
	if err := t.checkUnique(row, -1); err != nil {
		return 0, err
	}

	row.ID = t.nextID
	t.nextID++
	t.rows[row.ID] = &row
	t.order = append(t.order, row.ID)

	t.notifyAdded(row)
	return row.ID, nil
}

// UpdateRow merges partial over the existing cells of the given row, then
// re-runs full row validation and uniqueness (excluding the row itself).
// The stored row changes only if every check passes.
func (t *Table) UpdateRow(id RowID, partial map[string]types.Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[id]
	if !ok {
		return &RowNotFoundError{ID: id}
	}

	candidate := existing.clone()
	for name, v := range partial {
		if !t.schema.Has(name) {
			return &UnknownColumnError{Column: name}
		}
		candidate.Cells[name] = v
	}
	if err := candidate.Validate(t.schema); err != nil {
		return err
	}
	if err := t.checkUnique(candidate, id); err != nil {
		return err
	}

	old := existing.clone()
	t.rows[id] = &candidate

	t.notifyUpdated(old, candidate)
	return nil
}

// UpdateRows merges partial over every row matching the predicate as a
// single mutation. All candidates are validated first, and uniqueness is
// checked across the full resulting row set, so either every matching row
// changes or none does. The number of rows changed is returned; a nil
// predicate matches everything.
func (t *Table) UpdateRows(pred Predicate, partial map[string]types.Value) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for name := range partial {
		if !t.schema.Has(name) {
			return 0, &UnknownColumnError{Column: name}
		}
	}

	candidates := make(map[RowID]*Row)
	for _, id := range t.order {
		row := t.rows[id].clone()
		if pred != nil && !pred(row) {
			continue
		}
		for name, v := range partial {
			row.Cells[name] = v
		}
		if err := row.Validate(t.schema); err != nil {
			return 0, err
		}
		candidates[id] = &row
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	for _, col := range t.schema.Columns() {
		if !col.Unique {
			continue
		}
		seen := make(map[types.Value]RowID, len(t.order))
		for _, id := range t.order {
			row, changed := candidates[id]
			if !changed {
				row = t.rows[id]
			}
			v := row.Cells[col.Name]
			if v.IsNull() {
				continue
			}
			if _, dup := seen[v]; dup {
				return 0, &UniqueViolationError{Column: col.Name, Value: v}
			}
			seen[v] = id
		}
	}

	for _, id := range t.order {
		candidate, ok := candidates[id]
		if !ok {
			continue
		}
		old := t.rows[id].clone()
		t.rows[id] = candidate
		t.notifyUpdated(old, *candidate)
	}
	return len(candidates), nil
}

// DeleteRow removes the row. Its id is retired, not recycled.
func (t *Table) DeleteRow(id RowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[id]
	if !ok {
		return &RowNotFoundError{ID: id}
	}

	old := existing.clone()
	delete(t.rows, id)
	if i, found := slices.BinarySearch(t.order, id); found {
		t.order = slices.Delete(t.order, i, i+1)
	}

	t.notifyDeleted(old)
	return nil
}

// Scan returns a lazy sequence of row copies matching the predicate, in
// ascending row id order. Each call yields a fresh sequence; a nil predicate
// matches everything. The id order is captured when iteration starts, so a
// sequence must not be carried across a mutation boundary without copying.
func (t *Table) Scan(pred Predicate) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		t.mu.RLock()
		ids := slices.Clone(t.order)
		t.mu.RUnlock()

		for _, id := range ids {
			t.mu.RLock()
			stored, ok := t.rows[id]
			var row Row
			if ok {
				row = stored.clone()
			}
			t.mu.RUnlock()
			if !ok {
				continue
			}
			if pred == nil || pred(row) {
				if !yield(row) {
					return
				}
			}
		}
	}
}

// Rows returns copies of all rows in ascending id order.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]Row, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id].clone())
	}
	return rows
}

// Row returns a copy of the row with the given id.
func (t *Table) Row(id RowID) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stored, ok := t.rows[id]
	if !ok {
		return Row{}, &RowNotFoundError{ID: id}
	}
	return stored.clone(), nil
}

// UpdateSchema replaces the table's schema after re-validating every
// existing row against it. Cells for dropped columns are discarded; cells
// for added columns are materialized from the column default, or the null
// marker when the column is nullable. Uniqueness is re-checked across all
// rows for every column the new schema marks unique. On any failure the
// table is left exactly as it was; there is no partial migration.
func (t *Table) UpdateSchema(newSchema schema.Schema) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := newSchema.Validate(); err != nil {
		return err
	}

	migrated := make(map[RowID]*Row, len(t.rows))
	for _, id := range t.order {
		old := t.rows[id]
		cells := make(map[string]types.Value, newSchema.Len())
		for _, col := range newSchema.Columns() {
			if v, ok := old.Cells[col.Name]; ok {
				cells[col.Name] = v
				continue
			}
			if def, ok := col.Default(); ok {
				cells[col.Name] = def
				continue
			}
			if col.NotNull {
				return &SchemaMigrationError{RowID: id, Cause: &MissingRequiredValueError{Column: col.Name}}
			}
			cells[col.Name] = types.Null()
		}

		candidate := Row{ID: id, Cells: cells}
		if err := candidate.Validate(newSchema); err != nil {
			return &SchemaMigrationError{RowID: id, Cause: err}
		}
		migrated[id] = &candidate
	}

	for _, col := range newSchema.Columns() {
		if !col.Unique {
			continue
		}
		seen := make(map[types.Value]RowID, len(migrated))
		for _, id := range t.order {
			v := migrated[id].Cells[col.Name]
			if v.IsNull() {
				continue
			}
			if _, dup := seen[v]; dup {
				return &SchemaMigrationError{
					RowID: id,
					Cause: &UniqueViolationError{Column: col.Name, Value: v},
				}
			}
			seen[v] = id
		}
	}

	t.schema = newSchema
	t.rows = migrated
	return nil
}

// Load reconstructs a table from a snapshot: the rows keep their ids and the
// id counter resumes past everything seen. Validation is batched — one pass
// per unique column — but enforces the same invariants as the per-mutation
// path.
func Load(name string, s schema.Schema, rows []Row, nextID RowID) (*Table, error) {
	t, err := New(name, s)
	if err != nil {
		return nil, err
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	slices.SortFunc(sorted, func(a, b Row) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for _, row := range sorted {
		if _, exists := t.rows[row.ID]; exists {
			return nil, fmt.Errorf("duplicate row id %d in table %s", row.ID, name)
		}
		if err := row.Validate(s); err != nil {
			return nil, fmt.Errorf("load table %s: row %d: %w", name, row.ID, err)
		}
		stored := row.clone()
		t.rows[row.ID] = &stored
		t.order = append(t.order, row.ID)
		if row.ID >= nextID {
			nextID = row.ID + 1
		}
	}

	for _, col := range s.Columns() {
		if !col.Unique {
			continue
		}
		seen := make(map[types.Value]RowID, len(sorted))
		for _, id := range t.order {
			v := t.rows[id].Cells[col.Name]
			if v.IsNull() {
				continue
			}
			if _, dup := seen[v]; dup {
				return nil, &UniqueViolationError{Column: col.Name, Value: v}
			}
			seen[v] = id
		}
	}

	t.nextID = nextID
	return t, nil
}

// checkUnique scans existing rows for a collision in any unique column with
// the candidate's cells. The null marker never collides with anything,
// itself included. exclude skips the candidate's own stored row on updates.
func (t *Table) checkUnique(candidate Row, exclude RowID) error {
	for _, col := range t.schema.Columns() {
		if !col.Unique {
			continue
		}
		v := candidate.Cells[col.Name]
		if v.IsNull() {
			continue
		}
		for _, id := range t.order {
			if id == exclude {
				continue
			}
			other := t.rows[id].Cells[col.Name]
			if !other.IsNull() && other.Equal(v) {
				return &UniqueViolationError{Column: col.Name, Value: v}
			}
		}
	}
	return nil
}
