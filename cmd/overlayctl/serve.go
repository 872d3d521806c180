package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/internal/server"
	"github.com/goliatone/go-overlay/internal/watch"
	"github.com/goliatone/go-overlay/pkg/publish"
	"github.com/goliatone/go-overlay/pkg/site"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront page and the content editing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	editor, closeStore, err := a.openEditor(ctx)
	defer closeStore()
	if err != nil {
		return err
	}

	renderer, err := site.New(site.WithLogger(a.logger))
	if err != nil {
		return err
	}
	opts := []server.Option{server.WithLogger(a.logger)}
	if a.cfg.Publish.File != "" {
		opts = append(opts, server.WithPublishHandler(publish.Handler{
			Path:        a.cfg.Publish.File,
			Environment: a.cfg.Environment,
			Logger:      a.logger,
		}))
	}
	httpServer := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           server.New(editor, renderer, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	unsubscribe := editor.Subscribe(func(s overlay.State) {
		a.logger.Debug("editor state", zap.Bool("dirty", s.Dirty), zap.Bool("saving", s.Saving))
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", a.cfg.Listen), zap.String("environment", a.cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if a.cfg.Base.Watch {
		w, err := watch.New(a.cfg.Base.Path, editor, watch.WithLogger(a.logger))
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}
	return g.Wait()
}
