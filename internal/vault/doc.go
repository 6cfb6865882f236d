// Package vault manages the per-database secret lifecycle: generation,
// encryption at rest under the engine passphrase, recovery, and the
// derivation of the row-encryption key from the secret file's bytes.
package vault
