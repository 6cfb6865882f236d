package domain

import "context"

// KeyVault manages the per-database secret and the keys derived from it.
type KeyVault interface {
	// CreateSecret generates and persists a fresh secret for the database.
	CreateSecret(database string) error

	// RevealSecret decrypts and returns the database secret. Deterministic:
	// two calls return the same bytes.
	RevealSecret(database string) ([]byte, error)

	// RowKey returns the symmetric key used for row encryption, derived
	// from the secret file's stored bytes. Stable while the file is
	// unchanged; never requires the passphrase.
	RowKey(database string) ([]byte, error)

	// DestroySecret removes the secret file.
	DestroySecret(database string) error
}

// Gate serialises database access: at most one process identifier is active
// per database, admitted in FIFO order.
type Gate interface {
	// Register creates the admission queue for a database.
	Register(database string)

	// Drop discards the admission queue for a database.
	Drop(database string)

	// Connect enqueues pid and blocks until it reaches the head of the
	// queue, or ctx is cancelled.
	Connect(ctx context.Context, database string, pid ProcessID) error

	// Disconnect releases the active connection and promotes the next
	// waiter. Fails with ErrNotConnected unless pid is the active holder.
	Disconnect(database string, pid ProcessID) error

	// IsConnected reports whether pid is the active holder.
	IsConnected(database string, pid ProcessID) bool

	// HasActive reports whether any process is the active holder.
	HasActive(database string) bool
}

// TableStore performs row operations against a table's on-disk file.
type TableStore interface {
	Insert(database, table string, row Row) error
	Search(database, table string, conds Conditions) ([]Row, error)
	Update(database, table string, conds Conditions, updates Updates) ([]Row, error)
	Delete(database, table string, conds Conditions) ([]Row, error)
}
