package engine

import (
	"veildb/internal/domain"
	"veildb/internal/schema"
)

// Table is a schema-validated handle on one named table, bound to an active
// connection by explicit registration rather than any global state.
type Table struct {
	conn   *Connection
	name   string
	schema schema.Schema
}

// OpenTable binds a table handle to conn. The connection must be the
// active holder. The schema is enforced on rows handed to Insert and on
// the column set handed to Update; the raw connection-level operations
// remain schema-free.
func (e *Engine) OpenTable(conn *Connection, name string, s schema.Schema) (*Table, error) {
	if err := conn.ensureActive(); err != nil {
		return nil, err
	}
	return &Table{conn: conn, name: name, schema: s}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Insert validates row against the schema and appends it.
func (t *Table) Insert(row domain.Row) error {
	if err := schema.Validate(t.schema, row); err != nil {
		return err
	}
	return t.conn.Insert(t.name, row)
}

// Search returns rows matching every condition.
func (t *Table) Search(conds domain.Conditions) ([]domain.Row, error) {
	return t.conn.Search(t.name, conds)
}

// Update validates the update column set against the schema, then merges
// updates into matching rows and returns them post-update.
func (t *Table) Update(conds domain.Conditions, updates domain.Updates) ([]domain.Row, error) {
	if err := schema.ValidateUpdates(t.schema, updates); err != nil {
		return nil, err
	}
	return t.conn.Update(t.name, conds, updates)
}

// Delete removes matching rows and returns them.
func (t *Table) Delete(conds domain.Conditions) ([]domain.Row, error) {
	return t.conn.Delete(t.name, conds)
}
