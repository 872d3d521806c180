package overlay

import (
	"context"

	"github.com/goliatone/go-overlay/pkg/activity"
)

// Subscribe registers fn to receive a State snapshot after every change.
// Calls happen on the goroutine that made the change, outside the editor's
// locks. The returned function removes the subscription.
func (e *Editor) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subscribers, id)
		e.subMu.Unlock()
	}
}

func (e *Editor) notify(snap State) {
	e.subMu.Lock()
	subscribers := make([]func(State), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subscribers = append(subscribers, fn)
	}
	e.subMu.Unlock()

	for _, fn := range subscribers {
		fn(snap)
	}
}

func (e *Editor) emit(ctx context.Context, event activity.Event) {
	if !e.cfg.emitter.Enabled() {
		return
	}
	if err := e.cfg.emitter.Emit(ctx, event); err != nil {
		e.log(LogEvent{Kind: "activity", Key: e.key(), Err: err, Fields: map[string]any{"verb": event.Verb}})
	}
}

func (e *Editor) log(event LogEvent) {
	e.cfg.logger.LogEvent(event)
}
