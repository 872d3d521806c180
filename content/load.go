package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-overlay/internal/hydrate"
)

// ErrCorruptOverlay reports a persisted overlay that could not be used. Load
// still returns the base document alongside it.
var ErrCorruptOverlay = errors.New("content: corrupt overlay")

// LoadReport describes how a persisted overlay was turned into a document.
type LoadReport struct {
	Key        string          `json:"key,omitempty"`
	UsedBase   bool            `json:"used_base"`
	Migrations MigrationResult `json:"migrations"`
	// Dropped lists top-level sections whose persisted value no longer fits
	// the document; they were backfilled from base.
	Dropped  []string `json:"dropped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	key      string
	migrator *Migrator
}

// WithKey labels the payload in errors and reports.
func WithKey(key string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.key = key
	}
}

// WithMigrator overrides the default migration list.
func WithMigrator(m *Migrator) LoadOption {
	return func(cfg *loadConfig) {
		cfg.migrator = m
	}
}

// Load turns a raw persisted overlay into a schema-complete document: the
// payload is parsed, migrated, decoded and reconciled against base. An empty
// payload yields base. A section whose value has the wrong shape is dropped
// and backfilled from base, leaving the other sections intact. A payload that
// is not an object, or whose migration fails, yields base together with an
// error wrapping ErrCorruptOverlay meant for logging only.
func Load(base Document, raw []byte, opts ...LoadOption) (Document, LoadReport, error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.migrator == nil {
		cfg.migrator = NewMigrator()
	}

	report := LoadReport{Key: cfg.key, UsedBase: true}
	if len(bytes.TrimSpace(raw)) == 0 {
		return base.Clone(), report, nil
	}

	payload, err := hydrate.Parse(raw)
	if err != nil {
		return base.Clone(), report, fmt.Errorf("%w: %v", ErrCorruptOverlay, err)
	}

	var migrations MigrationResult
	decoder := hydrate.NewDecoder(
		hydrate.WithPreHook[Patch](func(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
			result, err := cfg.migrator.Run(payload)
			migrations = result
			return payload, err
		}),
		hydrate.WithDropInvalidKeys[Patch](func(key string, err error) {
			report.Dropped = append(report.Dropped, key)
			report.Warnings = append(report.Warnings, fmt.Sprintf("section %q backfilled from base: %v", key, err))
		}),
	)
	patch, err := decoder.Decode(hydrate.Context{Key: cfg.key, Version: PayloadVersion(payload)}, payload)
	report.Migrations = migrations
	if err != nil {
		report.Dropped, report.Warnings = nil, nil
		return base.Clone(), report, fmt.Errorf("%w: %v", ErrCorruptOverlay, err)
	}

	report.UsedBase = false
	return Reconcile(base, patch), report, nil
}

// Encode serializes a document the way it is persisted.
func Encode(doc Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("content: encode document: %w", err)
	}
	return raw, nil
}
