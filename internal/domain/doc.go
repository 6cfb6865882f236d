// Package domain defines core data models and interfaces shared across the
// engine. It contains plain types (rows, identifiers), the error taxonomy,
// and contracts (interfaces) only.
package domain
