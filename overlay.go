// Package overlay is the runtime state container behind the inline content
// editor. An Editor holds the current (draft) document, the last saved
// document and the dirty/edit-mode/saving flags, applies path-addressed
// edits one at a time, and saves drafts to a local store before publishing
// them to a remote durable copy.
package overlay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/activity"
	"github.com/goliatone/go-overlay/pkg/state"
)

// State is a point-in-time snapshot of an Editor.
type State struct {
	Document   content.Document `json:"document"`
	Dirty      bool             `json:"dirty"`
	EditMode   bool             `json:"editMode"`
	Saving     bool             `json:"saving"`
	SnapshotID string           `json:"snapshotId,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt,omitzero"`
}

// Editor owns one editable document. All methods are safe for concurrent use;
// mutations are applied in arrival order against the latest draft.
type Editor struct {
	cfg editorConfig

	mu        sync.Mutex
	base      content.Document
	current   content.Document
	saved     content.Document
	savedMeta state.Meta
	dirty     bool
	editMode  bool
	saving    bool
	revision  uint64

	saveMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSub     int
}

// New creates an Editor whose draft and saved documents both start as base.
func New(base content.Document, opts ...Option) *Editor {
	cfg := applyOptions(opts)
	return &Editor{
		cfg:         cfg,
		base:        base.Clone(),
		current:     base.Clone(),
		saved:       base.Clone(),
		subscribers: map[int]func(State){},
	}
}

// Ref returns the store slot the editor reads and writes.
func (e *Editor) Ref() state.Ref {
	return e.cfg.ref
}

// Base returns a copy of the base document.
func (e *Editor) Base() content.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.Clone()
}

// Document returns a copy of the current draft.
func (e *Editor) Document() content.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Saved returns a copy of the last saved document.
func (e *Editor) Saved() content.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved.Clone()
}

// Lookup reads a string from the draft; "" when path resolves to nothing.
func (e *Editor) Lookup(path string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return content.LookupString(e.current, path)
}

func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

func (e *Editor) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editMode
}

func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// State returns a snapshot of the document and flags.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() State {
	return State{
		Document:   e.current.Clone(),
		Dirty:      e.dirty,
		EditMode:   e.editMode,
		Saving:     e.saving,
		SnapshotID: e.savedMeta.SnapshotID,
		UpdatedAt:  e.savedMeta.UpdatedAt,
	}
}

// SetEditMode toggles edit mode. It never gates mutations.
func (e *Editor) SetEditMode(enabled bool) {
	e.mu.Lock()
	if e.editMode == enabled {
		e.mu.Unlock()
		return
	}
	e.editMode = enabled
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "edit_mode", Key: e.key(), Fields: map[string]any{"enabled": enabled}})
	e.notify(snap)
}

// SetPath assigns a string at a dot path of the draft and marks it dirty.
func (e *Editor) SetPath(path, value string) error {
	return e.mutate(path, value, func(doc content.Document) (content.Document, error) {
		return content.SetPath(doc, path, value)
	})
}

// SetValue assigns any JSON-compatible value, typically a list replacement
// such as a reordered landing.sections.
func (e *Editor) SetValue(path string, value any) error {
	return e.mutate(path, value, func(doc content.Document) (content.Document, error) {
		return content.SetValue(doc, path, value)
	})
}

func (e *Editor) mutate(path string, value any, apply func(content.Document) (content.Document, error)) error {
	e.mu.Lock()
	old, _ := content.Lookup(e.current, path)
	next, err := apply(e.current)
	if err != nil {
		e.mu.Unlock()
		e.log(LogEvent{Kind: "update", Key: e.key(), Path: path, Err: err})
		return fmt.Errorf("overlay: set %s: %w", path, err)
	}
	e.current = next
	e.dirty = true
	e.revision++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "update", Key: e.key(), Path: path})
	e.emit(context.Background(), activity.BuildUpdatedEvent(activity.ContentEventInput{
		ObjectID: e.key(),
		Path:     path,
		OldValue: old,
		NewValue: value,
	}))
	e.notify(snap)
	return nil
}

// Discard resets the draft to the last saved document and clears dirty.
func (e *Editor) Discard() {
	e.mu.Lock()
	wasDirty := e.dirty
	e.current = e.saved.Clone()
	e.dirty = false
	e.revision++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "discard", Key: e.key(), Fields: map[string]any{"was_dirty": wasDirty}})
	e.emit(context.Background(), activity.BuildDiscardedEvent(activity.ContentEventInput{ObjectID: e.key()}))
	e.notify(snap)
}

func (e *Editor) key() string {
	return e.cfg.ref.String()
}
