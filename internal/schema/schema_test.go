package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"veildb/internal/domain"
	"veildb/internal/schema"
)

var items = schema.Schema{
	{Name: "id", Type: schema.TypeInt},
	{Name: "name", Type: schema.TypeString},
	{Name: "qty", Type: schema.TypeInt},
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, schema.Validate(items, domain.Row{"id": 1, "name": "A", "qty": 2}))

	// Decoded JSON numbers are float64; integral values satisfy INT.
	require.NoError(t, schema.Validate(items, domain.Row{"id": float64(1), "name": "A", "qty": float64(2)}))
}

func TestValidate_MissingColumn(t *testing.T) {
	err := schema.Validate(items, domain.Row{"id": 1, "name": "A"})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestValidate_WrongType(t *testing.T) {
	err := schema.Validate(items, domain.Row{"id": "one", "name": "A", "qty": 2})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)

	err = schema.Validate(items, domain.Row{"id": 1.5, "name": "A", "qty": 2})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestValidate_UnknownColumn(t *testing.T) {
	err := schema.Validate(items, domain.Row{"id": 1, "name": "A", "qty": 2, "extra": true})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestValidateUpdates(t *testing.T) {
	require.NoError(t, schema.ValidateUpdates(items, domain.Updates{"qty": 9}))

	err := schema.ValidateUpdates(items, domain.Updates{"qty": "nine"})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)

	err = schema.ValidateUpdates(items, domain.Updates{"missing": 1})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestValidate_BoolAndFloatColumns(t *testing.T) {
	s := schema.Schema{
		{Name: "ok", Type: schema.TypeBool},
		{Name: "price", Type: schema.TypeFloat},
	}
	require.NoError(t, schema.Validate(s, domain.Row{"ok": true, "price": 1.25}))

	err := schema.Validate(s, domain.Row{"ok": "yes", "price": 1.25})
	require.ErrorIs(t, err, domain.ErrSchemaViolation)
}
