package app

import (
	"fmt"
	"os"
	"path/filepath"

	"veildb/internal/admission"
	"veildb/internal/audit"
	"veildb/internal/domain"
	"veildb/internal/engine"
	"veildb/internal/table"
	"veildb/internal/vault"
)

// Wire bundles the constructed dependency graph for the CLI and for
// embedding callers.
type Wire struct {
	Engine  *Engine
	PID     domain.ProcessID
	emitter *audit.FileEmitter
}

// Engine is re-exported so callers need only import app.
type Engine = engine.Engine

// NewWire constructs the dependency graph from cfg: audit emitter, key
// vault, admission gate, table store, engine.
func NewWire(cfg Config) (*Wire, error) {
	if cfg.Passphrase == "" {
		return nil, fmt.Errorf("passphrase required")
	}
	if cfg.ProcessID == "" {
		cfg.ProcessID = domain.ProcessID(fmt.Sprintf("%d", os.Getpid()))
	}

	databasesDir := filepath.Join(cfg.Root, "databases")

	var emitter audit.Emitter = audit.NopEmitter{}
	var fileEmitter *audit.FileEmitter
	if !cfg.NoAudit {
		fe, err := audit.NewFileEmitter(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		emitter = fe
		fileEmitter = fe
	}

	keys := vault.New(databasesDir, cfg.Passphrase)
	gate := admission.New()
	tables := table.New(databasesDir, keys)

	eng, err := engine.New(cfg.Root, keys, gate, tables, emitter, cfg.Logger)
	if err != nil {
		if fileEmitter != nil {
			_ = fileEmitter.Close()
		}
		return nil, err
	}
	return &Wire{Engine: eng, PID: cfg.ProcessID, emitter: fileEmitter}, nil
}

// Close flushes and closes the audit log.
func (w *Wire) Close() error {
	if w.emitter == nil {
		return nil
	}
	return w.emitter.Close()
}
