// Package table implements the on-disk table engine: line-oriented
// encrypted row files with insert, search, update, and delete operations.
package table
