package cache

import (
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store persisted to an SQLite database so processed
// assets survive process restarts. Every storage failure degrades to a
// cache miss; nothing here ever propagates an error into the request path.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS asset_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	tags       TEXT NOT NULL DEFAULT '',
	expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_asset_cache_tags ON asset_cache(tags);
`

// OpenSQLiteStore opens (and if needed creates) an SQLite-backed store at
// path. Use ":memory:" for an ephemeral store in tests.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the value for key. Expired rows and read failures are misses.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	var value []byte
	var expiresAt int64
	err := s.db.QueryRow(
		"SELECT value, expires_at FROM asset_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return nil, false
	}
	if expiresAt != 0 && time.Now().Unix() > expiresAt {
		s.db.Exec("DELETE FROM asset_cache WHERE key = ?", key)
		return nil, false
	}
	return value, true
}

// Set stores value under key. Tags are serialized as a comma-delimited list
// with sentinel commas so FlushByTag can match on substring. Write failures
// are ignored: a lost write just means a recompute later.
func (s *SQLiteStore) Set(key string, value []byte, tags []string, ttl time.Duration) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}
	s.db.Exec(
		"INSERT OR REPLACE INTO asset_cache (key, value, tags, expires_at) VALUES (?, ?, ?, ?)",
		key, value, encodeTags(tags), expiresAt,
	)
}

// Has reports whether a live row exists for key.
func (s *SQLiteStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Flush removes all rows.
func (s *SQLiteStore) Flush() {
	s.db.Exec("DELETE FROM asset_cache")
}

// FlushByTag removes every row carrying the tag.
func (s *SQLiteStore) FlushByTag(tag string) {
	s.db.Exec("DELETE FROM asset_cache WHERE tags LIKE ?", "%,"+tag+",%")
}

// encodeTags wraps and joins tags so ",tag," is an exact-match substring:
// encodeTags(["a","b"]) == ",a,b,". Tags never contain commas.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}
