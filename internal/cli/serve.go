package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/observability"
	"github.com/matzehuels/phylolane/pkg/server"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve command is interrupted.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and MRCA API over HTTP",
		Long: `Serve the layout and MRCA API over HTTP.

Layouts and estimate sets are kept in the configured [store] backend and
computed layouts in the [cache] backend. Prometheus metrics are exposed at
/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	st, err := c.Config.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	srv := server.New(server.Options{
		Runner:       runner,
		Store:        st,
		Layout:       c.Config.LayoutOptions(),
		Index:        c.Config.IndexOptions(),
		Metrics:      metrics.Handler(),
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
		Logger:       c.Logger,
	})

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadTimeout:       c.Config.Server.ReadTimeout.Duration,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "store", c.Config.Store.Backend, "cache", c.Config.Cache.Backend)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}
