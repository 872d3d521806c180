package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("state: invalid ref")

// Ref identifies one persisted overlay slot.
type Ref struct {
	Domain string
	Key    string
}

// Meta is storage-owned metadata used for audit and change detection.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves the raw payload of a single slot.
type Store interface {
	Load(ctx context.Context, ref Ref) (payload []byte, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, payload []byte, meta Meta) (Meta, error)
}

// Identifier returns the canonical "domain/key" storage key.
func (r Ref) Identifier() (string, error) {
	if err := validSegment("domain", r.Domain); err != nil {
		return "", err
	}
	if err := validSegment("key", r.Key); err != nil {
		return "", err
	}
	return r.Domain + "/" + r.Key, nil
}

func (r Ref) String() string {
	return r.Domain + "/" + r.Key
}

func validSegment(name, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("%w: %s is required", ErrInvalidRef, name)
	case value == "." || value == "..":
		return fmt.Errorf("%w: %s %q is reserved", ErrInvalidRef, name, value)
	case strings.ContainsAny(value, `/\`):
		return fmt.Errorf("%w: %s %q contains a path separator", ErrInvalidRef, name, value)
	}
	return nil
}

// ETag returns the content hash stored alongside a payload.
func ETag(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Option configures how stores stamp metadata.
type Option func(*stamper)

// WithClock overrides time.Now for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *stamper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the SnapshotID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *stamper) {
		if fn != nil {
			s.newID = fn
		}
	}
}

type stamper struct {
	now   func() time.Time
	newID func() string
}

func newStamper(opts []Option) stamper {
	s := stamper{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

func (s stamper) stamp(payload []byte, meta Meta) Meta {
	out := cloneMeta(meta)
	if out.SnapshotID == "" {
		out.SnapshotID = s.newID()
	}
	if out.ETag == "" {
		out.ETag = ETag(payload)
	}
	out.UpdatedAt = s.now().UTC()
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func clonePayload(payload []byte) []byte {
	if payload == nil {
		return nil
	}
	return append([]byte(nil), payload...)
}
