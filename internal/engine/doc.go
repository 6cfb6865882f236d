// Package engine ties the record store together: database directory
// lifecycle, secret creation and destruction, FIFO connection admission,
// audited lifecycle events, and the connection/table handles through which
// all row operations flow.
package engine
