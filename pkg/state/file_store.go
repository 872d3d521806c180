package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON file per slot under Root, at
// <root>/<domain>/<key>.json, with metadata in a <key>.meta.json sidecar.
// Writes go through a temp file and rename so readers never observe a
// partial payload.
type FileStore struct {
	Root string

	mu      sync.Mutex
	stamper stamper
}

func NewFileStore(root string, opts ...Option) *FileStore {
	return &FileStore{Root: root, stamper: newStamper(opts)}
}

func (s *FileStore) paths(ref Ref) (string, string, error) {
	if _, err := ref.Identifier(); err != nil {
		return "", "", err
	}
	if s.Root == "" {
		return "", "", fmt.Errorf("state: file store root is required")
	}
	dir := filepath.Join(s.Root, ref.Domain)
	return filepath.Join(dir, ref.Key+".json"), filepath.Join(dir, ref.Key+".meta.json"), nil
}

func (s *FileStore) Load(_ context.Context, ref Ref) ([]byte, Meta, bool, error) {
	payloadPath, metaPath, err := s.paths(ref)
	if err != nil {
		return nil, Meta{}, false, err
	}

	payload, err := os.ReadFile(payloadPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Meta{}, false, nil
	}
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("state: read %s: %w", ref, err)
	}

	var meta Meta
	rawMeta, err := os.ReadFile(metaPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, Meta{}, false, fmt.Errorf("state: read meta %s: %w", ref, err)
	default:
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, Meta{}, false, fmt.Errorf("state: decode meta %s: %w", ref, err)
		}
	}
	return payload, meta, true, nil
}

func (s *FileStore) Save(ctx context.Context, ref Ref, payload []byte, meta Meta) (Meta, error) {
	payloadPath, metaPath, err := s.paths(ref)
	if err != nil {
		return Meta{}, err
	}
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}

	stamped := s.stamper.stamp(payload, meta)
	rawMeta, err := json.Marshal(stamped)
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode meta %s: %w", ref, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(payloadPath), 0o755); err != nil {
		return Meta{}, fmt.Errorf("state: create dir for %s: %w", ref, err)
	}
	if err := WriteFileAtomic(payloadPath, payload, 0o644); err != nil {
		return Meta{}, fmt.Errorf("state: write %s: %w", ref, err)
	}
	if err := WriteFileAtomic(metaPath, rawMeta, 0o644); err != nil {
		return Meta{}, fmt.Errorf("state: write meta %s: %w", ref, err)
	}
	return stamped, nil
}

// WriteFileAtomic writes data to a temp file in the destination directory,
// syncs it, and renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
