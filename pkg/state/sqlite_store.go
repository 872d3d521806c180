package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const overlaysSchema = `
CREATE TABLE IF NOT EXISTS overlays (
	identifier  TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	snapshot_id TEXT NOT NULL,
	etag        TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	extra_json  TEXT
);`

// SQLiteStore keeps overlays in a single "overlays" table keyed by
// Ref.Identifier().
type SQLiteStore struct {
	db      *sql.DB
	path    string
	stamper stamper
}

// OpenSQLiteStore opens (or creates) the database at path. Use ":memory:" for
// a throwaway store.
func OpenSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("state: create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, overlaysSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, stamper: newStamper(opts)}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Load(ctx context.Context, ref Ref) ([]byte, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	var (
		payload   []byte
		meta      Meta
		updatedAt string
		extra     sql.NullString
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, snapshot_id, etag, updated_at, extra_json FROM overlays WHERE identifier = ?`, key)
	err = row.Scan(&payload, &meta.SnapshotID, &meta.ETag, &updatedAt, &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Meta{}, false, nil
	}
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("state: query %s: %w", key, err)
	}

	if updatedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, Meta{}, false, fmt.Errorf("state: parse updated_at for %s: %w", key, err)
		}
		meta.UpdatedAt = parsed
	}
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &meta.Extra); err != nil {
			return nil, Meta{}, false, fmt.Errorf("state: decode extra for %s: %w", key, err)
		}
	}
	return payload, meta, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, ref Ref, payload []byte, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	stamped := s.stamper.stamp(payload, meta)
	var extra sql.NullString
	if len(stamped.Extra) > 0 {
		raw, err := json.Marshal(stamped.Extra)
		if err != nil {
			return Meta{}, fmt.Errorf("state: encode extra for %s: %w", key, err)
		}
		extra = sql.NullString{String: string(raw), Valid: true}
	}
	if payload == nil {
		payload = []byte{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO overlays (identifier, payload, snapshot_id, etag, updated_at, extra_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			payload = excluded.payload,
			snapshot_id = excluded.snapshot_id,
			etag = excluded.etag,
			updated_at = excluded.updated_at,
			extra_json = excluded.extra_json`,
		key, payload, stamped.SnapshotID, stamped.ETag, stamped.UpdatedAt.Format(time.RFC3339Nano), extra)
	if err != nil {
		return Meta{}, fmt.Errorf("state: upsert %s: %w", key, err)
	}
	return stamped, nil
}
