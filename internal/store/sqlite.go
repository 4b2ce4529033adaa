package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"emphasize/internal/apperr"
	"emphasize/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
	slug       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'published',
	date       TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	content    TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	version    INTEGER NOT NULL DEFAULT 1,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_articles_updated ON articles(updated_at);
`

// DB wraps a sql.DB with publication store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Put upserts a record inside a transaction. The stored version must equal
// rec.Version (0 for a new record); any other value means the row changed
// since the caller read it and yields apperr.ErrConflict. On success the
// stored version becomes rec.Version+1.
func (db *DB) Put(ctx context.Context, rec Record) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM articles WHERE slug = ?`, rec.Slug).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case err != nil:
		return unavailable("read version", err)
	}
	if current != rec.Version {
		return fmt.Errorf("store: put %s: version %d is stale (stored %d): %w",
			rec.Slug, rec.Version, current, apperr.ErrConflict)
	}

	tagsJSON, _ := json.Marshal(rec.Tags)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO articles (slug, title, status, date, tags, content, checksum, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title      = excluded.title,
			status     = excluded.status,
			date       = excluded.date,
			tags       = excluded.tags,
			content    = excluded.content,
			checksum   = excluded.checksum,
			version    = excluded.version,
			updated_at = excluded.updated_at
	`, rec.Slug, rec.Title, string(rec.Status), rec.Date, string(tagsJSON),
		rec.Content, rec.Checksum, rec.Version+1, rec.UpdatedAt)
	if err != nil {
		return unavailable("upsert article", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// Get returns the record for a slug, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, slug string) (*Record, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT slug, title, status, date, tags, content, checksum, version, updated_at
		FROM articles WHERE slug = ?
	`, slug)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: get %s: %w", slug, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return rec, nil
}

// List returns all records ordered by updated_at descending. Drafts are
// excluded unless includeDrafts is set.
func (db *DB) List(ctx context.Context, includeDrafts bool) ([]Record, error) {
	query := `
		SELECT slug, title, status, date, tags, content, checksum, version, updated_at
		FROM articles
	`
	if !includeDrafts {
		query += ` WHERE status != 'draft'`
	}
	query += ` ORDER BY updated_at DESC, slug ASC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, unavailable("scan", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("rows", err)
	}
	return out, nil
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var status, tagsJSON string
	if err := scan(&rec.Slug, &rec.Title, &status, &rec.Date, &tagsJSON,
		&rec.Content, &rec.Checksum, &rec.Version, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Status = models.Status(status)
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		rec.Tags = nil
	}
	return &rec, nil
}

// unavailable classifies connection, timeout, and driver failures as the
// store-unreachable error of the taxonomy.
func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s (%v): %w", op, err, apperr.ErrUnavailable)
}
