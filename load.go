package overlay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/activity"
	"github.com/goliatone/go-overlay/pkg/state"
)

// Load reads the persisted overlay and makes its reconciled form both the
// draft and the saved document. A corrupt overlay is logged and replaced by
// base; the returned error is nil in that case. A store read failure keeps
// the current documents and is returned.
func (e *Editor) Load(ctx context.Context) (content.LoadReport, error) {
	e.mu.Lock()
	base := e.base.Clone()
	e.mu.Unlock()

	doc, meta, report, err := e.read(ctx, base)
	if err != nil {
		return report, err
	}

	e.mu.Lock()
	e.current = doc.Clone()
	e.saved = doc
	e.savedMeta = meta
	e.dirty = false
	e.revision++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.emit(ctx, activity.BuildLoadedEvent(activity.ContentEventInput{
		ObjectID:   e.key(),
		SnapshotID: meta.SnapshotID,
		ETag:       meta.ETag,
		Metadata: map[string]any{
			"used_base":  report.UsedBase,
			"migrations": report.Migrations.Applied,
			"dropped":    report.Dropped,
		},
	}))
	e.notify(snap)
	return report, nil
}

// Rebase swaps the base document, for example after the base file changed
// on disk, and reconciles the persisted overlay against it. Unsaved edits
// survive: the draft is reconciled against the new base as well and stays
// dirty. A store read failure leaves the editor on its previous base.
func (e *Editor) Rebase(ctx context.Context, base content.Document) (content.LoadReport, error) {
	base = base.Clone()
	doc, meta, report, err := e.read(ctx, base)
	if err != nil {
		return report, err
	}

	e.mu.Lock()
	e.base = base
	if e.dirty {
		e.current = content.Reconcile(base, content.PatchOf(e.current))
	} else {
		e.current = doc.Clone()
	}
	e.saved = doc
	e.savedMeta = meta
	e.revision++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log(LogEvent{Kind: "rebase", Key: e.key(), Fields: map[string]any{"dirty": snap.Dirty}})
	e.notify(snap)
	return report, nil
}

func (e *Editor) read(ctx context.Context, base content.Document) (content.Document, state.Meta, content.LoadReport, error) {
	started := time.Now()
	key := e.key()

	raw, meta, ok, err := e.cfg.store.Load(ctx, e.cfg.ref)
	if err != nil {
		e.log(LogEvent{Kind: "load", Key: key, Err: err, Duration: time.Since(started)})
		return content.Document{}, state.Meta{}, content.LoadReport{Key: key, UsedBase: true}, fmt.Errorf("overlay: load %s: %w", key, err)
	}
	if !ok {
		raw = nil
		meta = state.Meta{}
	}

	doc, report, err := content.Load(base, raw, content.WithKey(key), content.WithMigrator(e.cfg.migrator))
	fields := map[string]any{
		"used_base":    report.UsedBase,
		"from_version": report.Migrations.FromVersion,
		"to_version":   report.Migrations.ToVersion,
	}
	if len(report.Migrations.Applied) > 0 {
		fields["migrations"] = report.Migrations.Applied
	}
	for _, warning := range report.Migrations.Warnings {
		e.log(LogEvent{Kind: "migration", Key: key, Err: errors.New(warning)})
	}
	if len(report.Dropped) > 0 {
		fields["dropped"] = report.Dropped
	}
	for _, warning := range report.Warnings {
		e.log(LogEvent{Kind: "backfill", Key: key, Err: errors.New(warning)})
	}
	if err != nil {
		// corrupt overlays never fail the session
		e.log(LogEvent{Kind: "load", Key: key, Err: err, Duration: time.Since(started), Fields: fields})
		return doc, state.Meta{}, report, nil
	}
	e.log(LogEvent{Kind: "load", Key: key, Duration: time.Since(started), Fields: fields})
	return doc, meta, report, nil
}
