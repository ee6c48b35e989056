package fontindex

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fontmux/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. A cache with another
// version is dropped and rebuilt.
const schemaVersion = 1

// Cache persists parsed font names keyed by file path, size, and
// modification time.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenCache opens or creates the cache database at path.
func OpenCache(ctx context.Context, path string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path, logger: logging.NewComponentLogger(logger, "font-cache")}
	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	err = c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	c.logger.Info("rebuilding font cache",
		logging.Int("found_version", version),
		logging.Int("want_version", schemaVersion),
	)
	for _, table := range []string{"font_names", "font_faces", "font_files", "schema_version"} {
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return c.createSchema(ctx)
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Lookup returns the cached faces for path when size and modTime still match.
func (c *Cache) Lookup(ctx context.Context, path string, size int64, modTime time.Time) ([]Face, bool, error) {
	var cachedSize, cachedMod int64
	err := c.db.QueryRowContext(ctx,
		"SELECT size, mod_time FROM font_files WHERE path = ?", path,
	).Scan(&cachedSize, &cachedMod)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query font file: %w", err)
	}
	if cachedSize != size || cachedMod != modTime.UnixNano() {
		return nil, false, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT f.face_index, n.name
		   FROM font_faces f
		   LEFT JOIN font_names n ON n.path = f.path AND n.face_index = f.face_index
		  WHERE f.path = ?
		  ORDER BY f.face_index, n.position`, path)
	if err != nil {
		return nil, false, fmt.Errorf("query font names: %w", err)
	}
	defer rows.Close()

	var faces []Face
	for rows.Next() {
		var index int
		var name sql.NullString
		if err := rows.Scan(&index, &name); err != nil {
			return nil, false, fmt.Errorf("scan font name: %w", err)
		}
		if len(faces) == 0 || faces[len(faces)-1].Index != index {
			faces = append(faces, Face{Index: index})
		}
		if name.Valid {
			faces[len(faces)-1].Names = append(faces[len(faces)-1].Names, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate font names: %w", err)
	}
	if len(faces) == 0 {
		return nil, false, nil
	}
	return faces, true, nil
}

// Store replaces the cached faces for path.
func (c *Cache) Store(ctx context.Context, path string, size int64, modTime time.Time, faces []Face) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM font_files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete stale entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO font_files (path, size, mod_time, scanned_at) VALUES (?, ?, ?, ?)",
		path, size, modTime.UnixNano(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert font file: %w", err)
	}
	for _, face := range faces {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO font_faces (path, face_index) VALUES (?, ?)", path, face.Index,
		); err != nil {
			return fmt.Errorf("insert font face: %w", err)
		}
		for pos, name := range face.Names {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO font_names (path, face_index, position, name) VALUES (?, ?, ?, ?)",
				path, face.Index, pos, name,
			); err != nil {
				return fmt.Errorf("insert font name: %w", err)
			}
		}
	}
	return tx.Commit()
}

// Prune removes entries whose files no longer exist and returns how many
// were removed.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT path FROM font_files")
	if err != nil {
		return 0, fmt.Errorf("list cached fonts: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan cached font: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate cached fonts: %w", err)
	}
	for _, path := range stale {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM font_files WHERE path = ?", path); err != nil {
			return 0, fmt.Errorf("delete %s: %w", path, err)
		}
	}
	return len(stale), nil
}
