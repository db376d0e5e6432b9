package clipboard

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/incurian/nexus3/internal/nexuserr"
	"github.com/incurian/nexus3/internal/secio"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	key TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL,
	short_description TEXT,
	source_path TEXT,
	source_lines TEXT,
	line_count INTEGER NOT NULL,
	byte_count INTEGER NOT NULL,
	created_at REAL NOT NULL,
	modified_at REAL NOT NULL,
	created_by_agent TEXT,
	modified_by_agent TEXT,
	expires_at REAL,
	ttl_seconds INTEGER
);
CREATE INDEX IF NOT EXISTS idx_entries_key ON entries(key);
CREATE INDEX IF NOT EXISTS idx_entries_expires ON entries(expires_at) WHERE expires_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	created_at REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);

CREATE TABLE IF NOT EXISTS entry_tags (
	entry_id TEXT NOT NULL,
	tag_id INTEGER NOT NULL,
	PRIMARY KEY (entry_id, tag_id),
	FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE,
	FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag_id);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

const schemaVersion = "1"

// Storage is a sqlite-backed clipboard store for one persistent scope.
type Storage struct {
	db    *sql.DB
	scope Scope
}

// OpenStorage opens or creates the scope database at dbPath, per spec §4.6:
// owner-only file creation via secio, WAL journaling, and FK enforcement.
func OpenStorage(dbPath string, scope Scope) (*Storage, error) {
	if err := secio.SecureMkdir(filepath.Dir(dbPath), true); err != nil {
		return nil, fmt.Errorf("create clipboard db directory: %w", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := secio.CreateNewSecure(dbPath, nil); err != nil {
			return nil, fmt.Errorf("create clipboard db file: %w", err)
		}
	}

	escaped := strings.ReplaceAll(dbPath, " ", "%20")
	db, err := sql.Open("sqlite", "file:"+escaped)
	if err != nil {
		return nil, fmt.Errorf("open clipboard db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE key = 'schema_version'`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema metadata: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("write schema metadata: %w", err)
		}
	}

	return &Storage{db: db, scope: scope}, nil
}

// Close releases the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableFloat(v float64, ok bool) sql.NullFloat64 {
	if !ok {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullableInt(v int64, ok bool) sql.NullInt64 {
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func (s *Storage) rowToEntry(row interface {
	Scan(dest ...any) error
}) (*Entry, error) {
	var (
		id, key, content                           string
		shortDesc, sourcePath, sourceLines          sql.NullString
		createdByAgent, modifiedByAgent             sql.NullString
		lineCount, byteCount                        int
		createdAt, modifiedAt                       float64
		expiresAt                                   sql.NullFloat64
		ttlSeconds                                  sql.NullInt64
	)
	if err := row.Scan(&id, &key, &content, &shortDesc, &sourcePath, &sourceLines,
		&lineCount, &byteCount, &createdAt, &modifiedAt,
		&createdByAgent, &modifiedByAgent, &expiresAt, &ttlSeconds); err != nil {
		return nil, err
	}
	e := &Entry{
		ID:               id,
		Key:              key,
		Scope:            s.scope,
		Content:          content,
		LineCount:        lineCount,
		ByteCount:        byteCount,
		ShortDescription: shortDesc.String,
		SourcePath:       sourcePath.String,
		SourceLines:      sourceLines.String,
		CreatedAt:        createdAt,
		ModifiedAt:       modifiedAt,
		CreatedByAgent:   createdByAgent.String,
		ModifiedByAgent:  modifiedByAgent.String,
	}
	if expiresAt.Valid {
		e.HasExpiry = true
		e.ExpiresAt = expiresAt.Float64
	}
	if ttlSeconds.Valid {
		e.HasTTL = true
		e.TTLSeconds = ttlSeconds.Int64
	}
	tags, err := s.GetTags(key)
	if err != nil {
		return nil, err
	}
	e.Tags = tags
	return e, nil
}

const selectColumns = `id, key, content, short_description, source_path, source_lines,
	line_count, byte_count, created_at, modified_at,
	created_by_agent, modified_by_agent, expires_at, ttl_seconds`

// Get returns the entry for key, or (nil, nexuserr.ErrNotFound).
func (s *Storage) Get(key string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM entries WHERE key = ?`, key)
	e, err := s.rowToEntry(row)
	if err == sql.ErrNoRows {
		return nil, nexuserr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Exists reports whether key is present.
func (s *Storage) Exists(key string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM entries WHERE key = ?`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new entry. Returns nexuserr.ErrConflict if key exists.
func (s *Storage) Create(e *Entry) error {
	exists, err := s.Exists(e.Key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: key %q already exists", nexuserr.ErrConflict, e.Key)
	}
	if e.ID == "" {
		e.ID = newID()
	}
	_, err = s.db.Exec(
		`INSERT INTO entries
		 (id, key, content, short_description, source_path, source_lines,
		  line_count, byte_count, created_at, modified_at,
		  created_by_agent, modified_by_agent, expires_at, ttl_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Key, e.Content, nullable(e.ShortDescription), nullable(e.SourcePath), nullable(e.SourceLines),
		e.LineCount, e.ByteCount, e.CreatedAt, e.ModifiedAt,
		nullable(e.CreatedByAgent), nullable(e.ModifiedByAgent),
		nullableFloat(e.ExpiresAt, e.HasExpiry), nullableInt(e.TTLSeconds, e.HasTTL),
	)
	if err != nil {
		return err
	}
	if len(e.Tags) > 0 {
		return s.SetTags(e.Key, e.Tags)
	}
	return nil
}

// UpdateParams describes a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Content          *string
	ShortDescription *string
	SourcePath       *string
	SourceLines      *string
	NewKey           *string
	AgentID          string
	TTLSeconds       *int64
	Now              float64
}

// Update applies a partial update to the entry identified by key, returning
// the refreshed entry. Returns nexuserr.ErrNotFound if key is absent, or
// nexuserr.ErrConflict if NewKey collides with an existing entry.
func (s *Storage) Update(key string, p UpdateParams) (*Entry, error) {
	if _, err := s.Get(key); err != nil {
		return nil, err
	}
	if p.NewKey != nil && *p.NewKey != key {
		exists, err := s.Exists(*p.NewKey)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: key %q already exists", nexuserr.ErrConflict, *p.NewKey)
		}
	}

	var sets []string
	var args []any

	if p.Content != nil {
		sets = append(sets, "content = ?", "line_count = ?", "byte_count = ?")
		args = append(args, *p.Content, lineCount(*p.Content), len(*p.Content))
	}
	if p.ShortDescription != nil {
		sets = append(sets, "short_description = ?")
		args = append(args, nullable(*p.ShortDescription))
	}
	if p.SourcePath != nil {
		sets = append(sets, "source_path = ?")
		args = append(args, nullable(*p.SourcePath))
	}
	if p.SourceLines != nil {
		sets = append(sets, "source_lines = ?")
		args = append(args, nullable(*p.SourceLines))
	}
	if p.NewKey != nil {
		sets = append(sets, "key = ?")
		args = append(args, *p.NewKey)
	}
	if p.TTLSeconds != nil {
		sets = append(sets, "ttl_seconds = ?", "expires_at = ?")
		args = append(args, *p.TTLSeconds, p.Now+float64(*p.TTLSeconds))
	}
	sets = append(sets, "modified_at = ?", "modified_by_agent = ?")
	args = append(args, p.Now, nullable(p.AgentID))
	args = append(args, key)

	q := fmt.Sprintf("UPDATE entries SET %s WHERE key = ?", strings.Join(sets, ", "))
	if _, err := s.db.Exec(q, args...); err != nil {
		return nil, err
	}

	finalKey := key
	if p.NewKey != nil {
		finalKey = *p.NewKey
	}
	return s.Get(finalKey)
}

// Delete removes the entry for key, reporting whether anything was deleted.
func (s *Storage) Delete(key string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes every entry, returning the count removed.
func (s *Storage) Clear() (int, error) {
	res, err := s.db.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListAll returns every entry ordered by modified_at descending.
func (s *Storage) ListAll() ([]*Entry, error) {
	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM entries ORDER BY modified_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Entry
	for rows.Next() {
		e, err := s.rowToEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountExpired counts entries whose expires_at is at or before now.
func (s *Storage) CountExpired(now float64) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM entries WHERE expires_at IS NOT NULL AND expires_at <= ?`, now,
	).Scan(&n)
	return n, err
}

// GetExpired returns expired entries ordered by expires_at ascending.
func (s *Storage) GetExpired(now float64) ([]*Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+selectColumns+` FROM entries WHERE expires_at IS NOT NULL AND expires_at <= ? ORDER BY expires_at ASC`, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Entry
	for rows.Next() {
		e, err := s.rowToEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetTags replaces the full tag set for key, creating tags as needed.
func (s *Storage) SetTags(key string, tags []string) error {
	var entryID string
	if err := s.db.QueryRow(`SELECT id FROM entries WHERE key = ?`, key).Scan(&entryID); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: key %q", nexuserr.ErrNotFound, key)
		}
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entry_tags WHERE entry_id = ?`, entryID); err != nil {
		return err
	}
	for _, name := range dedupTags(tags) {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (name, created_at) VALUES (?, ?)`,
			name, float64(time.Now().Unix())); err != nil {
			return err
		}
		var tagID int64
		if err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO entry_tags (entry_id, tag_id) VALUES (?, ?)`, entryID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTags returns the tags for key, ordered by name.
func (s *Storage) GetTags(key string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT t.name FROM tags t
		 JOIN entry_tags et ON et.tag_id = t.id
		 JOIN entries e ON e.id = et.entry_id
		 WHERE e.key = ?
		 ORDER BY t.name`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}
