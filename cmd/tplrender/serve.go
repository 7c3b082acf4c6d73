package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-templating/internal/server"
	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var (
		flags engineFlags
		addr  string
		index string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a template directory over HTTP",
		Long: `Serve renders GET /<path> as the template <path>, with the query
string as variables. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := flags.logger()

			vars, err := flags.vars()
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())

			e, err := flags.build(logger, engine.WithObserver(metrics.New(metrics.WithRegistry(registry))))
			if err != nil {
				return err
			}

			handler, err := server.New(server.Config{
				Engine:   e,
				Logger:   logger,
				Vars:     vars,
				Gatherer: registry,
				Index:    index,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving templates", "addr", addr, "dir", flags.dir)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&index, "index", "index", "Template rendered for /")

	return cmd
}
