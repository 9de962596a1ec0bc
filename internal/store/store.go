// Package store persists edit-session snapshots in SQLite. Each session
// keeps its serialized model, a version counter and a copy of the package
// the model applies to.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ukaji3/ooxmledit-go/pkg/ooxmledit/models"
)

var (
	// ErrNotFound is returned for an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrVersionConflict is returned when a snapshot was saved by someone
	// else after it was loaded.
	ErrVersionConflict = errors.New("session was modified concurrently")
	// ErrLocked is returned when another process holds a session lock.
	ErrLocked = errors.New("session is locked by another process")
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    document_id TEXT PRIMARY KEY,
    format TEXT NOT NULL,
    base_container_path TEXT NOT NULL,
    serialized_model BLOB NOT NULL,
    version INTEGER NOT NULL,
    latest_export_path TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Store manages snapshot persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	dir  string
}

// Open initializes or connects to the snapshot database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, path: path, dir: dir}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PutContainer stores the package bytes for a session and returns the
// stored path. An existing copy is replaced atomically.
func (s *Store) PutContainer(id, format string, data []byte) (string, error) {
	dir := filepath.Join(s.dir, "containers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create container directory: %w", err)
	}
	target := filepath.Join(dir, id+"."+format)
	tmp, err := os.CreateTemp(dir, id+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp container: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write container: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close container: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store container: %w", err)
	}
	return target, nil
}

// Create inserts a new snapshot at version 1. An empty DocumentID is
// replaced with a fresh uuid.
func (s *Store) Create(ctx context.Context, snap *models.Snapshot) error {
	if snap.DocumentID == "" {
		snap.DocumentID = uuid.NewString()
	}
	snap.Version = 1
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (
            document_id, format, base_container_path, serialized_model,
            version, latest_export_path, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.DocumentID,
		snap.Format,
		snap.BaseContainerPath,
		[]byte(snap.SerializedModel),
		snap.Version,
		nullableString(snap.LatestExportPath),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Load fetches the latest snapshot of a session.
func (s *Store) Load(ctx context.Context, id string) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document_id, format, base_container_path, serialized_model, version, latest_export_path
        FROM snapshots WHERE document_id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Save replaces a snapshot and increments its version. snap.Version must be
// the version that was loaded; on success it holds the new version.
func (s *Store) Save(ctx context.Context, snap *models.Snapshot) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	var current int
	err = conn.QueryRowContext(ctx, `SELECT version FROM snapshots WHERE document_id = ?`, snap.DocumentID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, snap.DocumentID)
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if current != snap.Version {
		return fmt.Errorf("%w: %s is at version %d, expected %d", ErrVersionConflict, snap.DocumentID, current, snap.Version)
	}

	next := current + 1
	_, err = conn.ExecContext(ctx,
		`UPDATE snapshots SET base_container_path = ?, serialized_model = ?, version = ?,
            latest_export_path = ?, updated_at = ? WHERE document_id = ?`,
		snap.BaseContainerPath,
		[]byte(snap.SerializedModel),
		next,
		nullableString(snap.LatestExportPath),
		time.Now().UTC().Format(time.RFC3339Nano),
		snap.DocumentID,
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	committed = true
	snap.Version = next
	return nil
}

// Summary describes a stored session without its model.
type Summary struct {
	DocumentID       string    `json:"document_id"`
	Format           string    `json:"format"`
	Version          int       `json:"version"`
	LatestExportPath string    `json:"latest_export_path,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// List returns all sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, format, version, latest_export_path, updated_at
        FROM snapshots ORDER BY updated_at DESC, document_id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			export  sql.NullString
			updated string
		)
		if err := rows.Scan(&sum.DocumentID, &sum.Format, &sum.Version, &export, &updated); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		sum.LatestExportPath = export.String
		sum.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a session and its stored container.
func (s *Store) Delete(ctx context.Context, id string) error {
	snap, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if strings.HasPrefix(snap.BaseContainerPath, filepath.Join(s.dir, "containers")) {
		if err := os.Remove(snap.BaseContainerPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove container: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*models.Snapshot, error) {
	var (
		snap   models.Snapshot
		model  []byte
		export sql.NullString
	)
	if err := row.Scan(&snap.DocumentID, &snap.Format, &snap.BaseContainerPath, &model, &snap.Version, &export); err != nil {
		return nil, err
	}
	snap.SerializedModel = model
	snap.LatestExportPath = export.String
	return &snap, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
