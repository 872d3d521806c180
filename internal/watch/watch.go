// Package watch reloads the base document when its file changes and hands
// it to the editor for re-reconciliation.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-overlay/content"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Rebaser receives the reloaded base. *overlay.Editor implements it.
type Rebaser interface {
	Rebase(ctx context.Context, base content.Document) (content.LoadReport, error)
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher watches one base file. The parent directory is watched so that
// rename-into-place saves are seen.
type Watcher struct {
	path     string
	target   Rebaser
	debounce time.Duration
	logger   *zap.Logger

	fs        *fsnotify.Watcher
	closeOnce sync.Once
	closeErr  error
}

// New starts watching path. Call Run to process events, or Close to stop
// without running.
func New(path string, target Rebaser, opts ...Option) (*Watcher, error) {
	if target == nil {
		return nil, errors.New("watch: target is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		target:   target,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	w.fs = fs
	return w, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.Info("watching base document", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("base document changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				w.logger.Warn("base reload failed", zap.String("path", w.path), zap.Error(err))
			}
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) error {
	base, err := content.LoadBase(w.path)
	if err != nil {
		return err
	}
	report, err := w.target.Rebase(ctx, base)
	if err != nil {
		return err
	}
	w.logger.Info("base document reloaded",
		zap.String("key", report.Key),
		zap.Bool("used_base", report.UsedBase),
	)
	return nil
}
