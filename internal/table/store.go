package table

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"veildb/internal/codec"
	"veildb/internal/domain"
)

const fileSuffix = ".table"

// Store performs insert/search/update/delete against table files, one
// encrypted hex line per row.
//
// Update and delete are full-file rewrites in file order, O(rows) per call,
// written in place. A crash mid-rewrite can leave a truncated trailing
// line; the next read surfaces it as ErrCorruptRecord rather than silently
// dropping it. Cross-process exclusion is the admission gate's job and is
// not re-checked here; the mutex only serialises goroutines sharing this
// store.
type Store struct {
	dir  string // databases directory
	keys domain.KeyVault
	mu   sync.Mutex
}

// New returns a store over the databases directory, deriving row keys from
// the given vault.
func New(dir string, keys domain.KeyVault) *Store {
	return &Store{dir: dir, keys: keys}
}

// Insert appends one encoded row to the table file, creating the file on
// first reference to the table name.
func (s *Store) Insert(database, tbl string, row domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.keys.RowKey(database)
	if err != nil {
		return err
	}
	line, err := codec.Encode(row, key)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path(database, tbl), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open table file: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append row: %w", err)
	}
	return f.Close()
}

// Search decodes every line and returns the rows where all conditions
// match, in file order. Empty conditions match every row. The file is not
// mutated.
func (s *Store) Search(database, tbl string, conds domain.Conditions) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(database, tbl)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		if row.Matches(conds) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Update merges updates into every row matching conds (overwriting existing
// columns, adding new ones), rewrites the whole file in original order, and
// returns the changed rows post-update.
func (s *Store) Update(database, tbl string, conds domain.Conditions, updates domain.Updates) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(database, tbl)
	if err != nil {
		return nil, err
	}
	changed := []domain.Row{}
	for i, row := range rows {
		if !row.Matches(conds) {
			continue
		}
		merged := row.Clone()
		for col, val := range updates {
			merged[col] = val
		}
		rows[i] = merged
		changed = append(changed, merged)
	}
	if err := s.writeAll(database, tbl, rows); err != nil {
		return nil, err
	}
	return changed, nil
}

// Delete drops every row matching conds, rewrites the remainder preserving
// relative order, and returns the removed rows.
func (s *Store) Delete(database, tbl string, conds domain.Conditions) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll(database, tbl)
	if err != nil {
		return nil, err
	}
	removed := []domain.Row{}
	kept := rows[:0]
	for _, row := range rows {
		if row.Matches(conds) {
			removed = append(removed, row)
		} else {
			kept = append(kept, row)
		}
	}
	if err := s.writeAll(database, tbl, kept); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Store) path(database, tbl string) string {
	return filepath.Join(s.dir, database, tbl+fileSuffix)
}

// readAll decodes every line of the table file. Any undecodable line fails
// the whole read.
func (s *Store) readAll(database, tbl string) ([]domain.Row, error) {
	key, err := s.keys.RowKey(database)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(database, tbl))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrTableNotFound, tbl, database)
	}
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer f.Close()

	var rows []domain.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row, err := codec.Decode(line, key)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", tbl, len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}
	return rows, nil
}

// writeAll re-encodes every row and rewrites the table file in place.
func (s *Store) writeAll(database, tbl string, rows []domain.Row) error {
	key, err := s.keys.RowKey(database)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, row := range rows {
		line, err := codec.Encode(row, key)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path(database, tbl), []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("rewrite table file: %w", err)
	}
	return nil
}

// Compile-time assertion that Store implements domain.TableStore.
var _ domain.TableStore = (*Store)(nil)
