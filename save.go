package overlay

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/activity"
	"github.com/goliatone/go-overlay/pkg/state"
)

// Save promotes the draft to saved: it writes the draft to the local store,
// makes it the saved document, then publishes it remotely.
//
// The local write is authoritative. When the remote publish fails the draft
// still counts as saved, dirty is cleared, and a *PublishError is returned so
// the caller can alert the user. Edits that arrive while Save runs keep the
// editor dirty. Saves are serialized; each writes the draft as it stands when
// that save starts.
func (e *Editor) Save(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	started := time.Now()
	key := e.key()

	e.mu.Lock()
	e.saving = true
	snapshot := e.current.Clone()
	revision := e.revision
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)

	payload, err := content.Encode(snapshot)
	if err == nil {
		var meta state.Meta
		meta, err = e.cfg.store.Save(ctx, e.cfg.ref, payload, state.Meta{})
		if err == nil {
			return e.afterLocalSave(ctx, snapshot, revision, payload, meta, started)
		}
	}

	e.mu.Lock()
	e.saving = false
	snap = e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "save", Key: key, Err: err, Duration: time.Since(started)})
	e.notify(snap)
	return fmt.Errorf("%w: %s: %w", ErrLocalSave, key, err)
}

func (e *Editor) afterLocalSave(ctx context.Context, snapshot content.Document, revision uint64, payload []byte, meta state.Meta, started time.Time) error {
	key := e.key()

	e.mu.Lock()
	e.saved = snapshot
	e.savedMeta = meta
	if e.revision == revision {
		e.dirty = false
	} else {
		e.dirty = !reflect.DeepEqual(e.current, snapshot)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "save", Key: key, Duration: time.Since(started), Fields: map[string]any{
		"snapshot_id": meta.SnapshotID,
		"bytes":       len(payload),
	}})
	e.emit(ctx, activity.BuildSavedEvent(activity.ContentEventInput{
		ObjectID:   key,
		SnapshotID: meta.SnapshotID,
		ETag:       meta.ETag,
	}))
	e.notify(snap)

	var publishErr error
	if e.cfg.publisher != nil {
		publishStarted := time.Now()
		err := e.cfg.publisher.Publish(ctx, payload)
		e.log(LogEvent{Kind: "publish", Key: key, Err: err, Duration: time.Since(publishStarted)})
		e.emit(ctx, activity.BuildPublishedEvent(activity.ContentEventInput{
			ObjectID:   key,
			SnapshotID: meta.SnapshotID,
			ETag:       meta.ETag,
			Error:      err,
		}))
		if err != nil {
			publishErr = &PublishError{SnapshotID: meta.SnapshotID, Err: err}
		}
	}

	e.mu.Lock()
	e.saving = false
	snap = e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)

	return publishErr
}
