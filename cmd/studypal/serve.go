package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"studypal/internal/api"
	"studypal/internal/modelstore/file"
	"studypal/internal/registry"
)

const shutdownTimeout = 5 * time.Second

func NewServeCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis operations over HTTP",
		Long: `Serve exposes classify, summarize, keywords, tips, resources, feedback and train as JSON endpoints under /v1.
With a file store and store.watch enabled, models retrained by another process are picked up automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx := cmd.Context()
			if err := a.loadModels(ctx); err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.Server.Address
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if fs, ok := a.store.(*file.Storage); ok && a.cfg.Store.Watch {
				go func() {
					if err := a.registry.Watch(ctx, fs, registry.DefaultDebounce); err != nil {
						a.logger.Error("model watch stopped", zap.Error(err))
					}
				}()
			}

			srv := api.NewServer(a.svc, a.cfg.CorpusPath, a.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: server.address from config)")
	return cmd
}
