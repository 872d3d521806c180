// Package hydrate turns untrusted persisted overlay payloads into typed
// snapshots, running payload-level hooks before the typed decode.
package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("hydrate: payload is not a JSON object")

// Context identifies the payload being decoded.
type Context struct {
	Key     string
	Version int
}

// PreHook lets callers rewrite the raw payload before decoding. Returning a
// nil map keeps the current payload.
type PreHook func(Context, map[string]any) (map[string]any, error)

// DropFunc is told about every top-level key removed by WithDropInvalidKeys.
type DropFunc func(key string, err error)

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts overlay payloads into strongly typed values.
type Decoder[T any] struct {
	preHooks []PreHook
	dropped  DropFunc
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithDropInvalidKeys decodes every top-level key on its own and removes the
// ones whose value does not fit T, so one stale section cannot sink the
// rest of the payload. fn may be nil.
func WithDropInvalidKeys[T any](fn DropFunc) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if fn == nil {
			fn = func(string, error) {}
		}
		d.dropped = fn
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Parse decodes raw JSON into a payload map.
func Parse(raw []byte) (map[string]any, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("hydrate: parse payload: %w", err)
	}
	object, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, payload)
	}
	return object, nil
}

// Decode runs the pre-hooks on a copy of payload and decodes it into T. The
// caller's map is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for key %q", ctx.Key)
	}

	current, err := ClonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone payload for key %q: %w", ctx.Key, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for key %q failed: %w", ctx.Key, err)
		}
		if next != nil {
			current = next
		}
	}

	if d.dropped != nil {
		d.dropInvalid(current)
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for key %q: %w", ctx.Key, err)
	}
	var result T
	if err := json.Unmarshal(buffer, &result); err != nil {
		return zero, fmt.Errorf("hydrate: decode key %q: %w", ctx.Key, err)
	}
	return result, nil
}

func (d *Decoder[T]) dropInvalid(payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		buffer, err := json.Marshal(map[string]any{key: payload[key]})
		if err == nil {
			var section T
			err = json.Unmarshal(buffer, &section)
		}
		if err != nil {
			delete(payload, key)
			d.dropped(key, err)
		}
	}
}

// ClonePayload deep copies a JSON payload map.
func ClonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
