// Package app wires stores, the vault, the admission gate, and the engine
// into a ready dependency graph for the CLI.
package app
