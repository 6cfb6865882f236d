package domain

import "encoding/json"

// Row is a single record: column name to JSON-representable scalar
// (string, number, bool). Decoded rows carry numbers as float64, the
// encoding/json default.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Conditions select rows by exact-equality conjunction. Empty conditions
// match every row.
type Conditions map[string]any

// Updates are merged into matching rows: existing columns are overwritten,
// new columns are added.
type Updates map[string]any

// Matches reports whether every (column, value) pair in c equals the
// corresponding column of r. Numeric values are compared after float64
// normalisation so an int condition matches a stored JSON number.
func (r Row) Matches(c Conditions) bool {
	for col, want := range c {
		got, ok := r[col]
		if !ok || !valueEqual(got, want) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ProcessID identifies the process (or in-process client) holding or
// awaiting a database connection.
type ProcessID string
