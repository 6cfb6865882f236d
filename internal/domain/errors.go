package domain

import "errors"

var (
	// ErrDatabaseExists is returned when creating a database whose
	// directory already exists.
	ErrDatabaseExists = errors.New("database already exists")

	// ErrDatabaseNotFound is returned when referencing a missing database.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrTableNotFound is returned when reading a table that has never
	// been written.
	ErrTableNotFound = errors.New("table not found")

	// ErrSecretExists is returned when creating a secret for a database
	// that already has one.
	ErrSecretExists = errors.New("database secret already exists")

	// ErrSecretNotFound is returned when a database has no secret file.
	ErrSecretNotFound = errors.New("database secret not found")

	// ErrNotConnected is returned when an operation requires the caller to
	// be the active connection and it is not.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected is returned when a process connects to a
	// database it already holds or is already queued for.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrActiveConnections is returned when deleting a database while a
	// connection is active.
	ErrActiveConnections = errors.New("database has active connections")

	// ErrCorruptRecord is returned when a stored line fails hex decoding,
	// decryption, padding removal, or JSON parsing. A truncated trailing
	// line after a mid-rewrite crash surfaces as this error.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrSchemaViolation is returned when a row does not satisfy a table
	// schema.
	ErrSchemaViolation = errors.New("schema violation")
)
