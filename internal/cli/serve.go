package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/cache"
	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/deck"
	"github.com/matzehuels/stackdeck/pkg/errors"
	"github.com/matzehuels/stackdeck/pkg/observability"
	"github.com/matzehuels/stackdeck/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that exposes decks over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxDecks  int
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve decks over HTTP",
		Long: `Serve decks over HTTP.

Each deck created through the API runs on its own event loop and animates in
real time. Snapshots go to the store selected by the [store] table, and
Prometheus metrics are served on /metrics unless disabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("max-decks") {
				cfg.Server.MaxDecks = maxDecks
			}
			if noMetrics {
				cfg.Server.Metrics = false
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxDecks, "max-decks", 0, "maximum number of live decks")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	var metrics http.Handler
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetDeckHooks(hooks)
		observability.SetStoreHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		metrics = hooks.Handler()
	}

	var snaps *cache.Snapshots
	if cfg.Store.Backend != config.StoreNone {
		var err error
		if snaps, err = c.openSnapshots(ctx, cfg); err != nil {
			return err
		}
		defer snaps.Close()
	}

	srv := server.New(server.Config{
		MaxDecks:  cfg.Server.MaxDecks,
		Options:   func() deck.Options { return cfg.DeckOptions(c.Logger) },
		Snapshots: snaps,
		Metrics:   metrics,
		Logger:    c.Logger,
	})
	defer srv.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen on %s", cfg.Server.Addr)
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	c.Logger.Info("serving decks", "addr", ln.Addr().String(), "store", cfg.Store.Backend, "metrics", metrics != nil)

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "serve http")
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "decks", srv.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
