// Package sqlite provides a query index over a list of compilations. SQLite
// is the query engine only; the JSON store stays the source of truth and the
// index is rebuilt from it after every load.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

// ErrIndexClosed is returned by operations on a closed Index.
var ErrIndexClosed = errors.New("index is closed")

// Index is an in-memory SQLite database mirroring one compilation list.
type Index struct {
	mu sync.RWMutex
	db *sql.DB
}

// Stats summarises one compilation's items.
type Stats struct {
	CompilationID string `json:"compilation_id"`
	Name          string `json:"name"`
	Links         int    `json:"links"`
	Images        int    `json:"images"`
	Texts         int    `json:"texts"`
	ImageBytes    int64  `json:"image_bytes"`
}

// NewIndex opens an empty in-memory index.
func NewIndex() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database. Idempotent.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.db == nil {
		return nil
	}
	err := x.db.Close()
	x.db = nil
	return err
}

// Rebuild replaces the index contents with list. List position becomes the
// ordinal used for ordering results. Rebuild is transactional: on error the
// previous contents remain.
func (x *Index) Rebuild(list []types.Compilation) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.db == nil {
		return ErrIndexClosed
	}

	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM compilations"); err != nil {
		return fmt.Errorf("clearing compilations: %w", err)
	}

	// A duplicated ID keeps its first (front-most) occurrence.
	compStmt, err := tx.Prepare(`INSERT OR IGNORE INTO compilations
		(compilation_id, name, name_folded, ordinal) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing compilation insert: %w", err)
	}
	defer compStmt.Close()

	itemStmt, err := tx.Prepare(`INSERT OR IGNORE INTO items
		(compilation_id, item_id, ordinal, kind, name, size) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	for i, c := range list {
		res, err := compStmt.Exec(c.ID, c.Name, strings.ToLower(c.Name), i)
		if err != nil {
			return fmt.Errorf("indexing compilation %s: %w", c.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		for j, it := range c.Items {
			kind, size := describe(it.Content)
			if _, err := itemStmt.Exec(c.ID, it.ID, j, string(kind), nullString(it.Name), size); err != nil {
				return fmt.Errorf("indexing item %s: %w", it.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// Search returns the IDs of compilations whose name contains query, ignoring
// case, in list order. An empty query matches everything.
func (x *Index) Search(query string) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.db == nil {
		return nil, ErrIndexClosed
	}

	rows, err := x.db.Query(`SELECT compilation_id FROM compilations
		WHERE ? = '' OR instr(name_folded, ?) > 0 ORDER BY ordinal`, query, strings.ToLower(query))
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats returns per-compilation item counts in list order.
func (x *Index) Stats() ([]Stats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.db == nil {
		return nil, ErrIndexClosed
	}

	rows, err := x.db.Query(`SELECT c.compilation_id, c.name,
			COALESCE(SUM(i.kind = 'link'), 0),
			COALESCE(SUM(i.kind = 'image'), 0),
			COALESCE(SUM(i.kind = 'text'), 0),
			COALESCE(SUM(CASE WHEN i.kind = 'image' THEN i.size ELSE 0 END), 0)
		FROM compilations c
		LEFT JOIN items i ON i.compilation_id = c.compilation_id
		GROUP BY c.compilation_id
		ORDER BY c.ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	out := []Stats{}
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.CompilationID, &s.Name, &s.Links, &s.Images, &s.Texts, &s.ImageBytes); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// describe returns the content kind and payload size in bytes.
func describe(d types.ItemData) (types.ContentKind, int) {
	switch v := d.(type) {
	case types.Link:
		return types.KindLink, len(v.URL)
	case types.Text:
		return types.KindText, len(v.Body)
	case types.Image:
		return types.KindImage, len(v.Data)
	default:
		return "", 0
	}
}

// nullString converts an optional name to a nullable column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
