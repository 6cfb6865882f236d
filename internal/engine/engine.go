package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"veildb/internal/audit"
	"veildb/internal/domain"
)

// Engine orchestrates database lifecycle and access: directory layout,
// secret creation and destruction, the admission gate, and audit logging.
type Engine struct {
	root         string
	databasesDir string
	keys         domain.KeyVault
	gate         domain.Gate
	tables       domain.TableStore
	emitter      audit.Emitter
	logger       *slog.Logger
}

// New builds an engine rooted at root. The root and databases directories
// are created if missing, and admission queues are registered for every
// database already on disk. If logger is nil, slog.Default() is used.
func New(root string, keys domain.KeyVault, gate domain.Gate, tables domain.TableStore, emitter audit.Emitter, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = audit.NopEmitter{}
	}
	e := &Engine{
		root:         root,
		databasesDir: filepath.Join(root, "databases"),
		keys:         keys,
		gate:         gate,
		tables:       tables,
		emitter:      emitter,
		logger:       logger,
	}
	if err := os.MkdirAll(e.databasesDir, 0o700); err != nil {
		return nil, fmt.Errorf("create databases directory: %w", err)
	}
	names, err := e.ListDatabases()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		e.gate.Register(name)
	}
	return e, nil
}

// CreateDatabase creates the database directory, its encrypted secret, an
// empty per-database log, and an admission queue.
func (e *Engine) CreateDatabase(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	path := filepath.Join(e.databasesDir, name)
	if _, err := os.Stat(path); err == nil {
		err = fmt.Errorf("%w: %s", domain.ErrDatabaseExists, name)
		e.audit(audit.EventCreateDatabase, name, err)
		return err
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	if err := e.keys.CreateSecret(name); err != nil {
		_ = os.RemoveAll(path)
		e.audit(audit.EventCreateDatabase, name, err)
		return err
	}
	logPath := filepath.Join(path, name+".log")
	if err := os.WriteFile(logPath, nil, 0o600); err != nil {
		return fmt.Errorf("create database log: %w", err)
	}
	e.gate.Register(name)
	e.audit(audit.EventCreateDatabase, name, nil)
	e.logger.Info("database created", "database", name)
	return nil
}

// DeleteDatabase removes the database directory and all its files, and
// drops the in-memory admission queue. Refuses while a connection is
// active.
func (e *Engine) DeleteDatabase(name string) error {
	path := filepath.Join(e.databasesDir, name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %s", domain.ErrDatabaseNotFound, name)
		e.audit(audit.EventDeleteDatabase, name, err)
		return err
	}
	if e.gate.HasActive(name) {
		err := fmt.Errorf("%w: %s", domain.ErrActiveConnections, name)
		e.audit(audit.EventDeleteDatabase, name, err)
		return err
	}
	if err := e.keys.DestroySecret(name); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove database directory: %w", err)
	}
	e.gate.Drop(name)
	e.audit(audit.EventDeleteDatabase, name, nil)
	e.logger.Info("database deleted", "database", name)
	return nil
}

// ListDatabases returns the names of all databases on disk.
func (e *Engine) ListDatabases() ([]string, error) {
	entries, err := os.ReadDir(e.databasesDir)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	var names []string
	for _, ent := range entries {
		if ent.IsDir() {
			names = append(names, ent.Name())
		}
	}
	return names, nil
}

// Connect blocks until pid is admitted as the database's active connection
// and returns a handle for row operations.
func (e *Engine) Connect(ctx context.Context, name string, pid domain.ProcessID) (*Connection, error) {
	if _, err := os.Stat(filepath.Join(e.databasesDir, name)); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDatabaseNotFound, name)
	}
	// The database may have been created by another engine instance
	// sharing this root.
	e.gate.Register(name)
	if err := e.gate.Connect(ctx, name, pid); err != nil {
		return nil, err
	}
	e.audit(audit.EventConnect, name, nil)
	return &Connection{engine: e, database: name, pid: pid}, nil
}

// audit emits a lifecycle event; emit failures are logged, never raised.
func (e *Engine) audit(typ audit.EventType, database string, opErr error) {
	ev := audit.Event{
		Type:     typ,
		Status:   audit.StatusSuccess,
		Database: database,
		Time:     time.Now(),
	}
	if opErr != nil {
		ev.Status = audit.StatusError
		ev.Detail = opErr.Error()
	}
	if err := e.emitter.Emit(ev); err != nil {
		e.logger.Error("audit emit failed", "event", typ, "database", database, "error", err)
	}
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid database name %q", name)
	}
	return nil
}
