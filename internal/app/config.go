package app

import (
	"log/slog"

	"veildb/internal/domain"
)

// Config holds runtime wiring options for building the engine.
type Config struct {
	Root       string           // storage root, e.g. $HOME/.veildb
	Passphrase string           // engine passphrase sealing database secrets
	ProcessID  domain.ProcessID // identifier used for connections; defaults to the OS pid
	Logger     *slog.Logger     // optional; defaults to slog.Default()
	NoAudit    bool             // disable the plaintext audit trail
}
