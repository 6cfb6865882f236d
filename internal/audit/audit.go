package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status marks whether the audited operation succeeded.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// EventType identifies a database lifecycle event.
type EventType string

const (
	EventCreateDatabase EventType = "create_database"
	EventDeleteDatabase EventType = "delete_database"
	EventConnect        EventType = "connect"
	EventDisconnect     EventType = "disconnect"
)

// Event is one audited lifecycle action.
type Event struct {
	Type     EventType
	Status   Status
	Database string
	Detail   string // error text on failure, empty otherwise
	Time     time.Time
}

// Line renders the event as one plaintext log line.
func (e Event) Line() string {
	s := fmt.Sprintf("[%s] %s %s db=%s", e.Time.Format("2006-01-02 15:04:05"), e.Status, e.Type, e.Database)
	if e.Detail != "" {
		s += " error=" + e.Detail
	}
	return s
}

// Emitter accepts lifecycle events for recording.
type Emitter interface {
	Emit(Event) error
}

// NopEmitter discards all events. Use when no audit trail is configured.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(Event) error { return nil }

// FileEmitter appends each event to the process-wide global log and, when
// the event names a database whose directory still exists, to that
// database's own log.
type FileEmitter struct {
	mu           sync.Mutex
	global       *os.File
	databasesDir string
}

// NewFileEmitter opens (creating if needed) <root>/global/global.log for
// appending. Per-database logs live at <databasesDir>/<db>/<db>.log.
func NewFileEmitter(root string) (*FileEmitter, error) {
	globalDir := filepath.Join(root, "global")
	if err := os.MkdirAll(globalDir, 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(globalDir, "global.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &FileEmitter{global: f, databasesDir: filepath.Join(root, "databases")}, nil
}

// Emit appends the event line to the global log and to the per-database
// log when one exists.
func (e *FileEmitter) Emit(ev Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := ev.Line() + "\n"
	if _, err := e.global.WriteString(line); err != nil {
		return fmt.Errorf("append global log: %w", err)
	}
	if ev.Database == "" {
		return nil
	}
	path := filepath.Join(e.databasesDir, ev.Database, ev.Database+".log")
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		// Database directory gone (for example after delete_database);
		// the global line is the record.
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open database log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append database log: %w", err)
	}
	return f.Close()
}

// Close flushes and closes the global log.
func (e *FileEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.global.Close()
}

// Compile-time assertions.
var (
	_ Emitter = (*FileEmitter)(nil)
	_ Emitter = NopEmitter{}
)
