// Package commands defines the veildb CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - create    Create a database with a fresh encrypted secret
//   - drop      Delete a database and all its tables
//   - list      List databases
//   - insert    Insert a row into a table
//   - search    Search rows by exact-equality conditions
//   - update    Update rows matching conditions
//   - delete    Delete rows matching conditions
//
// # Implementation
//
// The root command builds the dependency graph (audit log, key vault,
// admission gate, table store, engine) before any subcommand runs. Row
// commands connect, hold the database's admission gate for the duration of
// the operation, and disconnect on the way out.
package commands
