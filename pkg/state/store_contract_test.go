package state_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-overlay/pkg/state"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func stampOptions() []state.Option {
	n := 0
	return []state.Option{
		state.WithClock(func() time.Time { return fixedNow }),
		state.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("snap-%d", n)
		}),
	}
}

type storeFactory struct {
	name string
	open func(t *testing.T) state.Store
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{name: "memory", open: func(t *testing.T) state.Store {
			return state.NewMemoryStore(stampOptions()...)
		}},
		{name: "file", open: func(t *testing.T) state.Store {
			return state.NewFileStore(t.TempDir(), stampOptions()...)
		}},
		{name: "sqlite", open: func(t *testing.T) state.Store {
			store, err := state.OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "overlay.db"), stampOptions()...)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			return store
		}},
	}
}

func TestStoreContracts(t *testing.T) {
	ref := state.Ref{Domain: "site", Key: "content"}
	ctx := context.Background()

	for _, factory := range storeFactories() {
		t.Run(factory.name, func(t *testing.T) {
			t.Run("missing slot", func(t *testing.T) {
				store := factory.open(t)
				payload, meta, ok, err := store.Load(ctx, ref)
				if err != nil {
					t.Fatalf("load: %v", err)
				}
				if ok || payload != nil || meta.SnapshotID != "" {
					t.Fatalf("expected empty slot, got ok=%v payload=%q meta=%+v", ok, payload, meta)
				}
			})

			t.Run("save stamps meta and load returns it", func(t *testing.T) {
				store := factory.open(t)
				payload := []byte(`{"contact":{"phone":"222"}}`)

				saved, err := store.Save(ctx, ref, payload, state.Meta{Extra: map[string]string{"source": "editor"}})
				if err != nil {
					t.Fatalf("save: %v", err)
				}
				if saved.SnapshotID != "snap-1" {
					t.Fatalf("expected generated snapshot id, got %q", saved.SnapshotID)
				}
				if saved.ETag != state.ETag(payload) {
					t.Fatalf("expected payload etag, got %q", saved.ETag)
				}
				if !saved.UpdatedAt.Equal(fixedNow) {
					t.Fatalf("expected updated_at %v, got %v", fixedNow, saved.UpdatedAt)
				}

				got, meta, ok, err := store.Load(ctx, ref)
				if err != nil || !ok {
					t.Fatalf("load: ok=%v err=%v", ok, err)
				}
				if string(got) != string(payload) {
					t.Fatalf("expected %s, got %s", payload, got)
				}
				if meta.SnapshotID != saved.SnapshotID || meta.ETag != saved.ETag || !meta.UpdatedAt.Equal(saved.UpdatedAt) {
					t.Fatalf("meta mismatch: saved %+v loaded %+v", saved, meta)
				}
				if meta.Extra["source"] != "editor" {
					t.Fatalf("expected extra to round trip, got %v", meta.Extra)
				}
			})

			t.Run("last write wins", func(t *testing.T) {
				store := factory.open(t)
				if _, err := store.Save(ctx, ref, []byte(`{"v":1}`), state.Meta{}); err != nil {
					t.Fatalf("first save: %v", err)
				}
				second, err := store.Save(ctx, ref, []byte(`{"v":2}`), state.Meta{})
				if err != nil {
					t.Fatalf("second save: %v", err)
				}
				got, meta, _, err := store.Load(ctx, ref)
				if err != nil {
					t.Fatalf("load: %v", err)
				}
				if string(got) != `{"v":2}` || meta.SnapshotID != second.SnapshotID {
					t.Fatalf("expected second write, got %s (%+v)", got, meta)
				}
			})

			t.Run("slots are independent", func(t *testing.T) {
				store := factory.open(t)
				other := state.Ref{Domain: "site", Key: "draft"}
				if _, err := store.Save(ctx, other, []byte(`{}`), state.Meta{}); err != nil {
					t.Fatalf("save: %v", err)
				}
				if _, _, ok, _ := store.Load(ctx, ref); ok {
					t.Fatalf("expected %s to stay empty", ref)
				}
			})

			t.Run("invalid ref", func(t *testing.T) {
				store := factory.open(t)
				if _, err := store.Save(ctx, state.Ref{Domain: "site"}, []byte(`{}`), state.Meta{}); err == nil {
					t.Fatalf("expected invalid ref error on save")
				}
				if _, _, _, err := store.Load(ctx, state.Ref{Key: "content"}); err == nil {
					t.Fatalf("expected invalid ref error on load")
				}
			})
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Domain: "site", Key: "content"}
	payload := []byte(`{"a":1}`)

	if _, err := store.Save(context.Background(), ref, payload, state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload[2] = 'b'

	got, _, _, _ := store.Load(context.Background(), ref)
	got[2] = 'c'
	again, _, _, _ := store.Load(context.Background(), ref)
	if string(again) != `{"a":1}` {
		t.Fatalf("store shares buffers with callers: %s", again)
	}
}

func TestFileStoreLayout(t *testing.T) {
	root := t.TempDir()
	store := state.NewFileStore(root)
	ref := state.Ref{Domain: "site", Key: "content"}

	if _, err := store.Save(context.Background(), ref, []byte(`{"hero":{}}`), state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, name := range []string{"content.json", "content.meta.json"} {
		if _, err := os.Stat(filepath.Join(root, "site", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	leftovers, err := filepath.Glob(filepath.Join(root, "site", ".tmp-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestFileStoreLoadsWithoutSidecar(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "site"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "site", "content.json"), []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload, meta, ok, err := state.NewFileStore(root).Load(context.Background(), state.Ref{Domain: "site", Key: "content"})
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(payload) != `{"x":1}` || meta.SnapshotID != "" {
		t.Fatalf("unexpected load %s %+v", payload, meta)
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ref := state.Ref{Domain: "site", Key: "content"}
	if _, err := state.NewMemoryStore().Save(ctx, ref, []byte(`{}`), state.Meta{}); err == nil {
		t.Fatalf("expected memory store to refuse a cancelled context")
	}
	if _, err := state.NewFileStore(t.TempDir()).Save(ctx, ref, []byte(`{}`), state.Meta{}); err == nil {
		t.Fatalf("expected file store to refuse a cancelled context")
	}
}
