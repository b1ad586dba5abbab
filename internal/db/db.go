// Package db implements the database: a named catalog of tables that routes
// operations to the right one.
package db

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/grendeldb/grendel/internal/schema"
	"github.com/grendeldb/grendel/internal/table"
)

// TableExistsError is returned when a table name is already taken.
type TableExistsError struct {
	Name string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.Name)
}

// TableNotFoundError is returned when no table has the given name.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s does not exist", e.Name)
}

// Database owns a mapping from table name to table. It has an explicit
// lifetime and no process-wide state; multiple databases may coexist.
// Every operation fully applies or fully fails with no partial mutation
// visible to later calls.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	logger *slog.Logger
}

// Option configures a database.
type Option func(*Database)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Database) {
		d.logger = logger
	}
}

// New creates an empty database.
func New(opts ...Option) *Database {
	d := &Database{
		tables: make(map[string]*table.Table),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateTable creates an empty table governed by the given schema. It fails
// when the name is taken or the schema is invalid.
func (d *Database) CreateTable(name string, s schema.Schema) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.tables[name]; exists {
		return &TableExistsError{Name: name}
	}
	tbl, err := table.New(name, s)
	if err != nil {
		return err
	}

	d.tables[name] = tbl
	d.logger.Info("table created", "table", name, "columns", s.Len())
	return nil
}

// RenameTable moves a table to a new name.
func (d *Database) RenameTable(oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tbl, exists := d.tables[oldName]
	if !exists {
		return &TableNotFoundError{Name: oldName}
	}
	if _, taken := d.tables[newName]; taken {
		return &TableExistsError{Name: newName}
	}

	delete(d.tables, oldName)
	tbl.Rename(newName)
	d.tables[newName] = tbl
	d.logger.Info("table renamed", "from", oldName, "to", newName)
	return nil
}

// DropTable removes a table and releases all its rows.
func (d *Database) DropTable(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.tables[name]; !exists {
		return &TableNotFoundError{Name: name}
	}

	delete(d.tables, name)
	d.logger.Info("table dropped", "table", name)
	return nil
}

// Table returns the table with the given name.
func (d *Database) Table(name string) (*table.Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tbl, exists := d.tables[name]
	if !exists {
		return nil, &TableNotFoundError{Name: name}
	}
	return tbl, nil
}

// TableNames returns all table names in ascending order.
func (d *Database) TableNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns all tables in ascending name order. Together with
// Table.Rows this gives a persistence layer a stable, deterministic
// enumeration of the whole database.
func (d *Database) Tables() []*table.Table {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]*table.Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, d.tables[name])
	}
	return tables
}

// Attach adds an already-built table, e.g. one reconstructed from a
// snapshot.
func (d *Database) Attach(tbl *table.Table) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := tbl.Name()
	if _, exists := d.tables[name]; exists {
		return &TableExistsError{Name: name}
	}
	d.tables[name] = tbl
	return nil
}
