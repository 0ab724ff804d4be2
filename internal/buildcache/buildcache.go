// Package buildcache is a persistent compile cache: compiler.CompileMatchCached
// consults it before running C2-C7 and stores the emitted source plus
// warnings on a miss, so repeated builds of an unchanged match expression
// skip automaton construction entirely. There is no teacher equivalent —
// funxy recompiles every run — so this is built directly off
// database/sql, the standard way to drive modernc.org/sqlite (a
// CGo-free sqlite driver, the cache's one concrete reason to exist: a
// pentesting/CI box building matchc output shouldn't need a C toolchain).
package buildcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS compiled_matches (
	key        TEXT PRIMARY KEY,
	emitted    BLOB NOT NULL,
	warnings   BLOB,
	created_at INTEGER NOT NULL
);`

// Cache is a handle on the sqlite-backed build cache.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the compiled_matches table exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening build cache %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing build cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error { return c.db.Close() }

// Entry is one cached compilation result.
type Entry struct {
	Emitted  []byte
	Warnings []byte
}

// Get looks up key, returning (entry, true, nil) on a hit, (nil, false,
// nil) on a clean miss, or a non-nil error only on an actual I/O failure.
func (c *Cache) Get(key string) (*Entry, bool, error) {
	row := c.db.QueryRow(`SELECT emitted, warnings FROM compiled_matches WHERE key = ?`, key)
	var e Entry
	if err := row.Scan(&e.Emitted, &e.Warnings); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading build cache entry %q: %w", key, err)
	}
	return &e, true, nil
}

// Put stores (or replaces) the cached compilation result for key,
// stamped with createdAt (Unix seconds), supplied by the caller since
// this package cannot call time.Now itself in a deterministic build.
func (c *Cache) Put(key string, emitted, warnings []byte, createdAt int64) error {
	_, err := c.db.Exec(
		`INSERT INTO compiled_matches (key, emitted, warnings, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET emitted = excluded.emitted, warnings = excluded.warnings, created_at = excluded.created_at`,
		key, emitted, warnings, createdAt,
	)
	if err != nil {
		return fmt.Errorf("writing build cache entry %q: %w", key, err)
	}
	return nil
}

// KeyOf hashes the pieces that determine a compilation's output — a
// rendering of the scrutinee AST and of the arms block AST, plus the
// entry-point shape (func name, result type, bool mode) — into the
// sqlite primary key. Callers are expected to pass a stable textual
// rendering of each AST (e.g. the source snippet or a printed form),
// not the AST's Go pointer values.
func KeyOf(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
