// Package schema describes table columns as an ordered list of name/type
// pairs and validates rows against them with a pure function, at
// construction time rather than by intercepted assignment.
package schema
