package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/tile"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tiles (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	file_name  TEXT NOT NULL,
	content    TEXT NOT NULL,
	busyness   INTEGER NOT NULL CHECK (busyness BETWEEN 0 AND 10),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tiles_position ON tiles(position);
`

// SQLiteStore keeps the library in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) List(ctx context.Context) (tiles []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "sqlite", "list", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, content, busyness FROM tiles ORDER BY position`)
	if err != nil {
		return nil, storageError(err, "list")
	}
	defer rows.Close()

	tiles = []tile.RawTile{}
	for rows.Next() {
		var t tile.RawTile
		if err := rows.Scan(&t.ID, &t.FileName, &t.Content, &t.Busyness); err != nil {
			return nil, storageError(err, "list")
		}
		tiles = append(tiles, t)
	}
	return tiles, storageError(rows.Err(), "list")
}

func (s *SQLiteStore) Add(ctx context.Context, tiles ...tile.RawTile) (added []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "sqlite", "add", start, err) }(time.Now())

	added, err = prepare(tiles)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageError(err, "add")
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM tiles`).Scan(&next); err != nil {
		return nil, storageError(err, "add")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tiles (id, position, file_name, content, busyness) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, storageError(err, "add")
	}
	defer stmt.Close()

	for i, t := range added {
		if _, err := stmt.ExecContext(ctx, t.ID, next+i, t.FileName, t.Content, t.Busyness); err != nil {
			return nil, storageError(err, "add")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, storageError(err, "add")
	}
	return added, nil
}

func (s *SQLiteStore) SetBusyness(ctx context.Context, id string, busyness int) (err error) {
	defer func(start time.Time) { observe(ctx, "sqlite", "update", start, err) }(time.Now())

	if err := errors.ValidateBusyness(busyness); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tiles SET busyness = ? WHERE id = ?`, busyness, id)
	return s.checkAffected(res, err, id, "update")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "sqlite", "delete", start, err) }(time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM tiles WHERE id = ?`, id)
	return s.checkAffected(res, err, id, "delete")
}

func (s *SQLiteStore) Clear(ctx context.Context) (err error) {
	defer func(start time.Time) { observe(ctx, "sqlite", "clear", start, err) }(time.Now())

	_, err = s.db.ExecContext(ctx, `DELETE FROM tiles`)
	return storageError(err, "clear")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) checkAffected(res sql.Result, err error, id, op string) error {
	if err != nil {
		return storageError(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError(err, op)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
