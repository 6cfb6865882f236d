package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veildb/internal/domain"
	"veildb/internal/vault"
)

func newVault(t *testing.T, passphrase string) (*vault.Vault, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o700))
	return vault.New(dir, passphrase), dir
}

func TestCreateReveal_RoundTrip(t *testing.T) {
	v, _ := newVault(t, "pass")
	require.NoError(t, v.CreateSecret("shop"))

	first, err := v.RevealSecret("shop")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Reveal re-derives the key from the salt persisted in the file, so it
	// is deterministic.
	second, err := v.RevealSecret("shop")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateSecret_AlreadyExists(t *testing.T) {
	v, _ := newVault(t, "pass")
	require.NoError(t, v.CreateSecret("shop"))

	err := v.CreateSecret("shop")
	require.ErrorIs(t, err, domain.ErrSecretExists)
}

func TestRevealSecret_WrongPassphrase_Fails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o700))

	require.NoError(t, vault.New(dir, "correct").CreateSecret("shop"))

	_, err := vault.New(dir, "wrong").RevealSecret("shop")
	require.Error(t, err)
}

func TestRevealSecret_Missing(t *testing.T) {
	v, _ := newVault(t, "pass")
	_, err := v.RevealSecret("shop")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestRowKey_StableAndPassphraseFree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shop"), 0o700))
	require.NoError(t, vault.New(dir, "pass").CreateSecret("shop"))

	a, err := vault.New(dir, "pass").RowKey("shop")
	require.NoError(t, err)
	require.Len(t, a, 32)

	// The row key hashes the stored file bytes; the passphrase plays no
	// part, so a vault opened with a different one derives the same key.
	b, err := vault.New(dir, "other").RowKey("shop")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSecretFile_ReadOnly(t *testing.T) {
	v, dir := newVault(t, "pass")
	require.NoError(t, v.CreateSecret("shop"))

	info, err := os.Stat(filepath.Join(dir, "shop", "database.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o400), info.Mode().Perm())
}

func TestDestroySecret(t *testing.T) {
	v, dir := newVault(t, "pass")
	require.NoError(t, v.CreateSecret("shop"))
	require.NoError(t, v.DestroySecret("shop"))

	_, err := os.Stat(filepath.Join(dir, "shop", "database.key"))
	require.True(t, os.IsNotExist(err))

	require.ErrorIs(t, v.DestroySecret("shop"), domain.ErrSecretNotFound)
}
