package vault

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"

	"veildb/internal/codec"
	"veildb/internal/domain"
)

const (
	keyFileName = "database.key"

	saltSize = 16
	keySize  = 32
)

// errDecrypt is returned when the passphrase is incorrect or the secret
// file has been modified.
var errDecrypt = errors.New("wrong passphrase or corrupted secret file")

// Vault generates, persists, and recovers one secret per database.
//
// The secret file holds salt ‖ iv ‖ AES-CBC ciphertext of the secret,
// encrypted under a key derived from the engine passphrase with scrypt. The
// salt persisted in the file is the one used to re-derive the key at reveal
// time. After writing, the file is set read-only as a guard against
// accidental overwrite; it does not protect row data from anyone who can
// read the filesystem, since the row key is a hash of the file's bytes.
type Vault struct {
	dir        string // databases directory
	passphrase []byte
	mu         sync.Mutex
}

// New returns a vault storing secrets under dir (one subdirectory per
// database), sealed with passphrase.
func New(dir, passphrase string) *Vault {
	return &Vault{dir: dir, passphrase: []byte(passphrase)}
}

// CreateSecret generates a fresh random secret for the database and writes
// it encrypted to the database's key file. Fails with ErrSecretExists if
// the file is already present.
func (v *Vault) CreateSecret(database string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	path := v.keyPath(database)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrSecretExists, database)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	secret := []byte(uuid.NewString())
	defer wipe(secret)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return err
	}

	key, err := v.deriveKey(salt)
	if err != nil {
		return err
	}
	defer wipe(key)

	ct, err := codec.EncryptCBC(key, iv, secret)
	if err != nil {
		return err
	}

	blob := make([]byte, 0, len(salt)+len(iv)+len(ct))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, ct...)

	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("write secret file: %w", err)
	}
	return os.Chmod(path, 0o400)
}

// RevealSecret decrypts and returns the database secret, re-deriving the
// key from the salt stored in the file. Deterministic across calls.
func (v *Vault) RevealSecret(database string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	blob, err := v.readKeyFile(database)
	if err != nil {
		return nil, err
	}
	if len(blob) < saltSize+aes.BlockSize+aes.BlockSize {
		return nil, fmt.Errorf("%w: secret file too short", errDecrypt)
	}
	salt := blob[:saltSize]
	iv := blob[saltSize : saltSize+aes.BlockSize]
	ct := blob[saltSize+aes.BlockSize:]

	key, err := v.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	secret, err := codec.DecryptCBC(key, iv, ct)
	if err != nil {
		return nil, errDecrypt
	}
	return secret, nil
}

// RowKey returns the key used for row encryption: the SHA-256 of the secret
// file's stored (still encrypted) bytes. Stable while the file is
// unchanged, and never needs the passphrase.
func (v *Vault) RowKey(database string) ([]byte, error) {
	blob, err := v.readKeyFile(database)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(blob)
	return sum[:], nil
}

// DestroySecret clears the read-only bit and removes the key file.
func (v *Vault) DestroySecret(database string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	path := v.keyPath(database)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrSecretNotFound, database)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return err
	}
	return os.Remove(path)
}

func (v *Vault) keyPath(database string) string {
	return filepath.Join(v.dir, database, keyFileName)
}

func (v *Vault) readKeyFile(database string) ([]byte, error) {
	blob, err := os.ReadFile(v.keyPath(database))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSecretNotFound, database)
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (v *Vault) deriveKey(salt []byte) ([]byte, error) {
	N, r, p := scryptParams()
	return scrypt.Key(v.passphrase, salt, N, r, p, keySize)
}

// Tunables for scrypt key derivation.
func scryptParams() (N, r, p int) { return 1 << 15, 8, 1 }

// Compile-time assertion that Vault implements domain.KeyVault.
var _ domain.KeyVault = (*Vault)(nil)
