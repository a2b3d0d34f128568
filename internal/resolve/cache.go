// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/slidegen/pkg/types"
)

// Cache is a read-through Resolver wrapper backed by SQLite. Hits skip the
// external tool entirely; misses are fetched through the inner resolver in
// one batch and written back. Caching lives inside the resolver
// collaborator — the pipeline itself still treats every run as fresh.
// Implements: prd003-resolution R4.1-R4.4.
type Cache struct {
	db    *sql.DB
	inner Resolver
}

// NewCache opens (or creates) the cache database at path and wraps inner.
func NewCache(path string, inner Resolver) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening reference cache: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS refs (
		id TEXT PRIMARY KEY,
		item TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, inner: inner}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Resolve serves ids from the cache where possible and delegates the rest
// to the inner resolver. When the inner resolver is unavailable but every
// id was cached, the run proceeds on cache alone; with uncached ids left
// over the unavailability is propagated so the caller can warn.
func (c *Cache) Resolve(ctx context.Context, ids []string) (map[string]types.ReferenceItem, error) {
	out := make(map[string]types.ReferenceItem, len(ids))
	var missing []string

	for _, id := range ids {
		item, ok, err := c.get(ctx, id)
		if err != nil {
			return nil, &ToolError{Command: "reference cache", Err: err}
		}
		if ok {
			out[id] = item
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.inner.Resolve(ctx, missing)
	if err != nil {
		// With at least some cached hits the run proceeds on cache alone;
		// the uncached ids are then reported as unresolved by the caller.
		if len(out) > 0 {
			return out, nil
		}
		return nil, err
	}

	for id, item := range fetched {
		out[id] = item
		if err := c.put(ctx, id, item); err != nil {
			return nil, &ToolError{Command: "reference cache", Err: err}
		}
	}

	return out, nil
}

func (c *Cache) get(ctx context.Context, id string) (types.ReferenceItem, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT item FROM refs WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return types.ReferenceItem{}, false, nil
	}
	if err != nil {
		return types.ReferenceItem{}, false, err
	}

	var item types.ReferenceItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		// A corrupt row behaves like a miss so the entry gets refetched.
		return types.ReferenceItem{}, false, nil
	}
	return item, true, nil
}

func (c *Cache) put(ctx context.Context, id string, item types.ReferenceItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO refs (id, item, fetched_at) VALUES (?, ?, ?)`,
		id, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}
