// Package publish performs the remote durable write of a content document
// and serves the receiving endpoint.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-overlay/pkg/state"
)

// Publisher writes the full serialized document somewhere durable.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, payload []byte) error

func (fn PublisherFunc) Publish(ctx context.Context, payload []byte) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, payload)
}

// Production is the environment name in which durable writes are refused.
const Production = "production"

// IsGuarded reports whether environment refuses durable writes.
func IsGuarded(environment string) bool {
	return strings.EqualFold(strings.TrimSpace(environment), Production)
}

// FilePublisher writes the document straight to Path, applying the same
// environment guard as Handler. It serves single-process setups where the
// editor and the durable file live on the same host.
type FilePublisher struct {
	Path        string
	Environment string
}

func (p FilePublisher) Publish(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if IsGuarded(p.Environment) {
		return &RemoteError{Code: GuardCode, Body: guardMessage(p.Environment)}
	}
	_, err := writeDocument(p.Path, payload)
	return err
}

func validateDocument(payload []byte) error {
	var object map[string]any
	if err := json.Unmarshal(payload, &object); err != nil || object == nil {
		return ErrInvalidDocument
	}
	return nil
}

func writeDocument(path string, payload []byte) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("publish: durable file path is required")
	}
	if err := validateDocument(payload); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("publish: create dir: %w", err)
	}
	if err := state.WriteFileAtomic(path, payload, 0o644); err != nil {
		return 0, fmt.Errorf("publish: write %s: %w", path, err)
	}
	return len(payload), nil
}

func guardMessage(environment string) string {
	return fmt.Sprintf("content writes are disabled in %s", strings.TrimSpace(environment))
}
