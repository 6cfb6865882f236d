package engine

import (
	"fmt"

	"veildb/internal/audit"
	"veildb/internal/domain"
)

// Connection is the handle returned by Engine.Connect. It exists only in
// memory; row operations are valid only while the connection is the active
// holder of the database's admission gate.
type Connection struct {
	engine   *Engine
	database string
	pid      domain.ProcessID
}

// Database returns the database name this connection is bound to.
func (c *Connection) Database() string { return c.database }

// PID returns the process identifier that owns this connection.
func (c *Connection) PID() domain.ProcessID { return c.pid }

// IsConnected reports whether this connection is still the active holder.
func (c *Connection) IsConnected() bool {
	return c.engine.gate.IsConnected(c.database, c.pid)
}

// Disconnect releases the database to the next waiter in the queue.
func (c *Connection) Disconnect() error {
	if err := c.engine.gate.Disconnect(c.database, c.pid); err != nil {
		return err
	}
	c.engine.audit(audit.EventDisconnect, c.database, nil)
	return nil
}

// Insert appends a row to the named table, creating it on first use.
func (c *Connection) Insert(table string, row domain.Row) error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	return c.engine.tables.Insert(c.database, table, row)
}

// Search returns the rows matching every condition, in file order.
func (c *Connection) Search(table string, conds domain.Conditions) ([]domain.Row, error) {
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	return c.engine.tables.Search(c.database, table, conds)
}

// Update merges updates into matching rows and returns them post-update.
func (c *Connection) Update(table string, conds domain.Conditions, updates domain.Updates) ([]domain.Row, error) {
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	return c.engine.tables.Update(c.database, table, conds, updates)
}

// Delete removes matching rows and returns them.
func (c *Connection) Delete(table string, conds domain.Conditions) ([]domain.Row, error) {
	if err := c.ensureActive(); err != nil {
		return nil, err
	}
	return c.engine.tables.Delete(c.database, table, conds)
}

func (c *Connection) ensureActive() error {
	if !c.engine.gate.IsConnected(c.database, c.pid) {
		return fmt.Errorf("%w: %s on %s", domain.ErrNotConnected, c.pid, c.database)
	}
	return nil
}
