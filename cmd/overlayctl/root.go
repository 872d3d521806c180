package main

import (
	"context"
	"fmt"
	"strings"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/internal/config"
	"github.com/goliatone/go-overlay/pkg/activity"
	"github.com/goliatone/go-overlay/pkg/activity/usersink"
	"github.com/goliatone/go-overlay/pkg/publish"
	"github.com/goliatone/go-overlay/pkg/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	configFile string
	cfg        config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "overlayctl",
		Short:         "Content overlay editor for the Kona Breeze Air storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./overlay.yaml)")

	root.AddCommand(
		newServeCmd(a),
		newReconcileCmd(a),
		newRenderCmd(a),
		newPreviewCmd(a),
		newFieldsCmd(a),
		newMigrationsCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// base returns the configured base document or the compiled-in one.
func (a *app) base() (content.Document, error) {
	if strings.TrimSpace(a.cfg.Base.Path) == "" {
		return content.Base(), nil
	}
	return content.LoadBase(a.cfg.Base.Path)
}

// openStore builds the configured store. The returned close func is never nil.
func (a *app) openStore(ctx context.Context) (state.Store, func() error, error) {
	noop := func() error { return nil }
	switch a.cfg.Store.Driver {
	case config.DriverMemory:
		return state.NewMemoryStore(), noop, nil
	case config.DriverFile:
		return state.NewFileStore(a.cfg.Store.Path), noop, nil
	case config.DriverSQLite:
		store, err := state.OpenSQLiteStore(ctx, a.cfg.Store.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown store.driver %q", config.ErrInvalidConfig, a.cfg.Store.Driver)
	}
}

// publisher picks the remote client when an endpoint is set, then the
// in-process file writer, else none.
func (a *app) publisher() publish.Publisher {
	switch {
	case a.cfg.Publish.Endpoint != "":
		return publish.NewClient(a.cfg.Publish.Endpoint, publish.WithTimeout(a.cfg.Publish.Timeout))
	case a.cfg.Publish.File != "":
		return publish.FilePublisher{Path: a.cfg.Publish.File, Environment: a.cfg.Environment}
	default:
		return nil
	}
}

// migrator evaluates migration guards with the configured engine.
func (a *app) migrator() (*content.Migrator, error) {
	evaluator, err := content.NewGuardEvaluator(a.cfg.Migrations.Engine)
	if err != nil {
		return nil, fmt.Errorf("migrations.engine: %w", err)
	}
	return content.NewMigrator(content.WithEvaluator(evaluator)), nil
}

// openEditor builds an editor over the configured store and loads it.
func (a *app) openEditor(ctx context.Context) (*overlay.Editor, func() error, error) {
	base, err := a.base()
	if err != nil {
		return nil, func() error { return nil }, err
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, closeStore, err
	}
	domain, key, err := a.cfg.StoreRef()
	if err != nil {
		return nil, closeStore, err
	}
	migrator, err := a.migrator()
	if err != nil {
		return nil, closeStore, err
	}

	opts := []overlay.Option{
		overlay.WithStore(store),
		overlay.WithMigrator(migrator),
		overlay.WithRef(state.Ref{Domain: domain, Key: key}),
		overlay.WithEventLogger(overlay.NewZapLogger(a.logger)),
		overlay.WithActivityHooks(activity.Hooks{usersink.Hook{Sink: auditLog{logger: a.logger}}}),
		overlay.WithActivityConfig(activity.Config{Enabled: true, ActorID: a.cfg.Activity.Actor}),
	}
	if p := a.publisher(); p != nil {
		opts = append(opts, overlay.WithPublisher(p))
	}
	editor := overlay.New(base, opts...)
	if _, err := editor.Load(ctx); err != nil {
		return nil, closeStore, err
	}
	return editor, closeStore, nil
}
