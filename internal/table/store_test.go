package table_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veildb/internal/domain"
	"veildb/internal/table"
	"veildb/internal/vault"
)

func newStore(t *testing.T) (*table.Store, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o700))
	keys := vault.New(dir, "pass")
	require.NoError(t, keys.CreateSecret("shop"))
	return table.New(dir, keys), dir
}

func TestInsertSearch(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1, "name": "A", "qty": 2}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2, "name": "B", "qty": 5}))

	rows, err := s.Search("shop", "Items", domain.Conditions{"id": 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["name"])

	// Decoded numbers come back as float64; an int condition still matches.
	rows, err = s.Search("shop", "Items", domain.Conditions{"qty": 5})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["name"])
}

func TestSearch_EmptyConditionsMatchAll(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2}))

	rows, err := s.Search("shop", "Items", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSearch_ConjunctionAndFileOrder(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1, "name": "A", "qty": 2}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2, "name": "A", "qty": 5}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 3, "name": "B", "qty": 2}))

	rows, err := s.Search("shop", "Items", domain.Conditions{"name": "A", "qty": 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1), rows[0]["id"])

	rows, err = s.Search("shop", "Items", domain.Conditions{"name": "A"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(1), rows[0]["id"])
	assert.Equal(t, float64(2), rows[1]["id"])
}

func TestSearch_MissingTable(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Search("shop", "Nope", nil)
	require.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestUpdate_TouchesOnlyMatchingRows(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1, "name": "A", "qty": 2}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2, "name": "B", "qty": 5}))

	changed, err := s.Update("shop", "Items", domain.Conditions{"id": 2}, domain.Updates{"qty": 9})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, 9, changed[0]["qty"])
	assert.Equal(t, "B", changed[0]["name"])

	// Row count conserved; unmatched row untouched; order preserved.
	rows, err := s.Search("shop", "Items", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(1), rows[0]["id"])
	assert.Equal(t, float64(2), rows[0]["qty"])
	assert.Equal(t, float64(9), rows[1]["qty"])
}

func TestUpdate_AddsNewColumn(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1}))

	changed, err := s.Update("shop", "Items", domain.Conditions{"id": 1}, domain.Updates{"tag": "new"})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "new", changed[0]["tag"])
}

func TestDelete_RemovesExactlyMatchingRows(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1, "name": "A"}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2, "name": "B"}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 3, "name": "A"}))

	removed, err := s.Delete("shop", "Items", domain.Conditions{"name": "A"})
	require.NoError(t, err)
	require.Len(t, removed, 2)
	assert.Equal(t, float64(1), removed[0]["id"])
	assert.Equal(t, float64(3), removed[1]["id"])

	rows, err := s.Search("shop", "Items", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(2), rows[0]["id"])
}

func TestRead_TruncatedTrailingLine_ReportsCorrupt(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 1, "name": "A"}))
	require.NoError(t, s.Insert("shop", "Items", domain.Row{"id": 2, "name": "B"}))

	// Truncate mid-line, as a crash during a full-file rewrite would.
	path := filepath.Join(dir, "shop", "Items.table")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-9], 0o600))

	_, err = s.Search("shop", "Items", nil)
	require.ErrorIs(t, err, domain.ErrCorruptRecord)

	_, err = s.Update("shop", "Items", domain.Conditions{"id": 1}, domain.Updates{"name": "C"})
	require.ErrorIs(t, err, domain.ErrCorruptRecord)

	_, err = s.Delete("shop", "Items", nil)
	require.ErrorIs(t, err, domain.ErrCorruptRecord)
}

func TestInsert_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o700))
	s := table.New(dir, vault.New(dir, "pass"))

	err := s.Insert("shop", "Items", domain.Row{"id": 1})
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}
