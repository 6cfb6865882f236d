package schema

import (
	"fmt"
	"math"

	"veildb/internal/domain"
)

// Type is the scalar type of a column.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the SQL-ish name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "TEXT"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeBool:
		return "BOOL"
	}
	return "UNKNOWN"
}

// Column is one named, typed column.
type Column struct {
	Name string
	Type Type
}

// Schema is the ordered column list of a table.
type Schema []Column

// Validate checks row against the schema: every column present with a value
// of the declared type, and no columns outside the schema. Decoded JSON
// numbers arrive as float64, so an integral float64 satisfies an INT
// column.
func Validate(s Schema, row domain.Row) error {
	for _, col := range s {
		val, ok := row[col.Name]
		if !ok {
			return fmt.Errorf("%w: missing column %q", domain.ErrSchemaViolation, col.Name)
		}
		if !typeOK(col.Type, val) {
			return fmt.Errorf("%w: column %q expects %s, got %T", domain.ErrSchemaViolation, col.Name, col.Type, val)
		}
	}
	if len(row) > len(s) {
		for name := range row {
			if !hasColumn(s, name) {
				return fmt.Errorf("%w: unknown column %q", domain.ErrSchemaViolation, name)
			}
		}
	}
	return nil
}

// ValidateUpdates checks a partial column set, as passed to update: every
// named column must exist in the schema and carry a value of its declared
// type.
func ValidateUpdates(s Schema, updates domain.Updates) error {
	for name, val := range updates {
		var col *Column
		for i := range s {
			if s[i].Name == name {
				col = &s[i]
				break
			}
		}
		if col == nil {
			return fmt.Errorf("%w: unknown column %q", domain.ErrSchemaViolation, name)
		}
		if !typeOK(col.Type, val) {
			return fmt.Errorf("%w: column %q expects %s, got %T", domain.ErrSchemaViolation, name, col.Type, val)
		}
	}
	return nil
}

func hasColumn(s Schema, name string) bool {
	for _, col := range s {
		if col.Name == name {
			return true
		}
	}
	return false
}

func typeOK(t Type, val any) bool {
	switch t {
	case TypeString:
		_, ok := val.(string)
		return ok
	case TypeBool:
		_, ok := val.(bool)
		return ok
	case TypeFloat:
		switch val.(type) {
		case float64, float32, int, int8, int16, int32, int64:
			return true
		}
		return false
	case TypeInt:
		switch n := val.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return n == math.Trunc(n)
		case float32:
			return float64(n) == math.Trunc(float64(n))
		}
		return false
	}
	return false
}
