// Package admission implements the per-database FIFO connection gate:
// at most one process identifier is active per database at any time, and
// waiters are admitted strictly in arrival order.
package admission
