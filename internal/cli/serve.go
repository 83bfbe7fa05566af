package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/surflabel/pkg/api"
	"github.com/matzehuels/surflabel/pkg/buildinfo"
	"github.com/matzehuels/surflabel/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dilation HTTP API",
		Long: `Serve exposes dilation over HTTP:

  GET  /healthz     liveness and version
  POST /v1/dilate   dilate a surface/labels pair
  GET  /metrics     Prometheus metrics (unless disabled)

Results are cached with the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.Config.Server
			if cmd.Flags().Changed("addr") {
				srv.Addr = addr
			}
			if noMetrics {
				srv.Metrics = false
			}
			return c.runServe(cmd.Context(), srv.Addr, srv.Metrics, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, metrics, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := []api.Option{
		api.WithLogger(c.Logger),
		api.WithWorkers(c.Config.Dilate.Workers),
		api.WithMaxBodyBytes(c.Config.Server.MaxBodyBytes),
		api.WithTimeout(c.Config.Server.Timeout),
		api.WithVersion(buildinfo.Version),
	}
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetDilationHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		opts = append(opts, api.WithMetrics(hooks.Handler()))
	}

	c.Logger.Debug("starting server", "build", buildinfo.String())
	printInfo("Serving on %s", addr)
	printDetail("cache: %s", c.Config.Cache.Backend)
	return api.New(runner, opts...).ListenAndServe(ctx, addr)
}
